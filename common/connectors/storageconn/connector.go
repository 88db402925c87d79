package storageconn

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wsa-2002/pd6-be-sub001/common/config"
	"github.com/wsa-2002/pd6-be-sub001/common/connectors"
	"github.com/wsa-2002/pd6-be-sub001/lib/connector"
)

// URLSigner yields pre-signed download urls for stored objects. The judge
// task builder depends on this interface only, the http connector below is
// the production implementation.
type URLSigner interface {
	SignURL(bucket, key, filename string, ttl time.Duration) (string, error)
}

type Connector struct {
	connection *connectors.ConnectorBase
}

func NewConnector(connection *config.Connection) *Connector {
	if connection == nil {
		return nil
	}
	return &Connector{connectors.NewConnectorBase(connection)}
}

func (s *Connector) SignURL(bucket, key, filename string, ttl time.Duration) (string, error) {
	request := &SignRequest{
		Bucket:   bucket,
		Key:      key,
		Filename: filename,
		TTL:      ttl,
	}
	requestJSON, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to form sign request to storage: %v", err)
	}

	r := s.connection.R()
	r.SetQueryParam("request", string(requestJSON))

	signed, err := connector.Receive[SignedURL](r, "/storage/sign", "GET")
	if err != nil {
		return "", err
	}
	return signed.URL, nil
}

func (s *Connector) Upload(request *UploadRequest) (*UploadResponse, error) {
	if request.File == nil {
		return nil, fmt.Errorf("file for upload is not specified")
	}

	requestJSON, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to form upload request to storage: %v", err)
	}

	r := s.connection.R()
	r.SetFormData(map[string]string{
		"request": string(requestJSON),
	})
	r.SetFileReader("file", request.Filename, request.File)

	return connector.Receive[UploadResponse](r, "/storage/upload", "POST")
}

func (s *Connector) Delete(bucket, key string) error {
	requestJSON, err := json.Marshal(&UploadRequest{Bucket: bucket, Key: key})
	if err != nil {
		return fmt.Errorf("failed to form delete request to storage: %v", err)
	}

	r := s.connection.R()
	r.SetFormData(map[string]string{
		"request": string(requestJSON),
	})

	return connector.ReceiveEmpty(r, "/storage/remove", "DELETE")
}
