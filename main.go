package main

import (
	"os"
	"time"

	"github.com/wsa-2002/pd6-be-sub001/api"
	"github.com/wsa-2002/pd6-be-sub001/auth"
	"github.com/wsa-2002/pd6-be-sub001/common"
	"github.com/wsa-2002/pd6-be-sub001/judge"
	"github.com/wsa-2002/pd6-be-sub001/scoreboard"
)

func main() {
	configPath := os.Args[1]
	platform := common.InitJudgePlatform(configPath)

	scopes := auth.NewScopeResolver(platform.DB)
	resolver := auth.NewResolver(platform.DB, scopes)

	signTTL := 10 * time.Minute
	rejudgeBatchSize := 100
	if platform.Config.Judge != nil {
		signTTL = platform.Config.Judge.SignedURLTTL
		rejudgeBatchSize = platform.Config.Judge.RejudgeBatchSize
	}

	builder := judge.NewTaskBuilder(platform.DB, platform.StorageConn, signTTL)
	dispatcher := judge.NewDispatcher(platform.DB, builder, platform.BrokerConn, platform.Metrics, rejudgeBatchSize)
	store := judge.NewStore(platform.DB)

	consumer := judge.NewConsumer(store, platform.BrokerConn, platform.Config.Broker.ReportQueue, platform.Metrics)
	platform.AddProcess(func() { consumer.Run(platform.StopCtx) })

	api.Setup(platform, resolver, dispatcher, store, scoreboard.NewAggregator(platform.DB))

	platform.Run()
}
