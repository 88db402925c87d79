package api

import (
	"github.com/wsa-2002/pd6-be-sub001/auth"
	"github.com/wsa-2002/pd6-be-sub001/common"
	"github.com/wsa-2002/pd6-be-sub001/judge"
	"github.com/wsa-2002/pd6-be-sub001/scoreboard"
)

// Api is the http surface of the judge backend. Handlers stay thin: they
// authorize, translate, and delegate to the dispatcher, store and
// aggregator.
type Api struct {
	platform   *common.JudgePlatform
	resolver   *auth.Resolver
	dispatcher *judge.Dispatcher
	store      *judge.Store
	boards     *scoreboard.Aggregator
}

func Setup(
	platform *common.JudgePlatform,
	resolver *auth.Resolver,
	dispatcher *judge.Dispatcher,
	store *judge.Store,
	boards *scoreboard.Aggregator,
) *Api {
	a := &Api{
		platform:   platform,
		resolver:   resolver,
		dispatcher: dispatcher,
		store:      store,
		boards:     boards,
	}

	r := platform.Router
	r.POST("/submission", a.handleSubmit)
	r.POST("/submission/:id/rejudge", a.handleRejudgeSubmission)
	r.POST("/problem/:id/rejudge", a.handleRejudgeProblem)
	r.GET("/submission/:id/judgment", a.handleLatestJudgment)
	r.GET("/submission/:id/judgments", a.handleJudgmentHistory)
	r.GET("/scoreboard/:id", a.handleScoreboard)
	r.POST("/scoreboard-setting/validate", a.handleValidateSetting)

	return a
}
