package auth

import (
	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
	"github.com/wsa-2002/pd6-be-sub001/lib/cache"
)

const scopeCacheCapacity = 4096

// ScopeResolver derives the class a narrower scope belongs to. The
// ownership edges (problem -> challenge -> class, team -> class) are
// immutable once created, so lookups are cached.
//
// A lookup for an id that does not exist returns gorm.ErrRecordNotFound;
// an invalid scope id is the only error a permission check can raise.
type ScopeResolver struct {
	db *gorm.DB

	problemChallenge *cache.LookupCache[uint, uint]
	challengeClass   *cache.LookupCache[uint, uint]
	teamClass        *cache.LookupCache[uint, uint]
	classCourse      *cache.LookupCache[uint, uint]
}

func NewScopeResolver(db *gorm.DB) *ScopeResolver {
	s := &ScopeResolver{db: db}

	s.problemChallenge = cache.NewLookupCache(scopeCacheCapacity, func(problemID uint) (*uint, error) {
		problem := new(models.Problem)
		if err := s.db.First(problem, problemID).Error; err != nil {
			return nil, err
		}
		return &problem.ChallengeID, nil
	})
	s.challengeClass = cache.NewLookupCache(scopeCacheCapacity, func(challengeID uint) (*uint, error) {
		challenge := new(models.Challenge)
		if err := s.db.First(challenge, challengeID).Error; err != nil {
			return nil, err
		}
		return &challenge.ClassID, nil
	})
	s.teamClass = cache.NewLookupCache(scopeCacheCapacity, func(teamID uint) (*uint, error) {
		team := new(models.Team)
		if err := s.db.First(team, teamID).Error; err != nil {
			return nil, err
		}
		return &team.ClassID, nil
	})
	s.classCourse = cache.NewLookupCache(scopeCacheCapacity, func(classID uint) (*uint, error) {
		class := new(models.Class)
		if err := s.db.First(class, classID).Error; err != nil {
			return nil, err
		}
		return &class.CourseID, nil
	})

	return s
}

func (s *ScopeResolver) ResolveClassFromChallenge(challengeID uint) (uint, error) {
	classID, err := s.challengeClass.Get(challengeID)
	if err != nil {
		return 0, err
	}
	return *classID, nil
}

func (s *ScopeResolver) ResolveClassFromProblem(problemID uint) (uint, error) {
	challengeID, err := s.problemChallenge.Get(problemID)
	if err != nil {
		return 0, err
	}
	return s.ResolveClassFromChallenge(*challengeID)
}

func (s *ScopeResolver) ResolveClassFromTeam(teamID uint) (uint, error) {
	classID, err := s.teamClass.Get(teamID)
	if err != nil {
		return 0, err
	}
	return *classID, nil
}

// CheckClass verifies that the class exists.
func (s *ScopeResolver) CheckClass(classID uint) error {
	_, err := s.classCourse.Get(classID)
	return err
}
