package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lagkaka/internal/app"
	"github.com/shrimpsizemoose/lagkaka/internal/handlers"
)

func main() {
	service, err := app.NewService("config.toml")
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	registration := handlers.NewRegistrationHandler(service)
	submissions := handlers.NewSubmissionHandler(service)
	evaluations := handlers.NewEvaluationHandler(service)
	criteria := handlers.NewCriteriaHandler(service)
	auth := handlers.NewAuthHandler(service)

	http.HandleFunc("POST /api/v1/teams", registration.HandleRegister)
	http.HandleFunc("GET /api/v1/teams/{id}", registration.HandleGetTeam)

	http.HandleFunc("PUT /api/v1/teams/{id}/submission", submissions.HandleUpsertSubmission)
	http.HandleFunc("GET /api/v1/teams/{id}/submission", submissions.HandleGetSubmission)

	http.HandleFunc("PUT /api/v1/submissions/{id}/evaluation", evaluations.HandleSubmitEvaluation)
	http.HandleFunc("GET /api/v1/submissions/{id}/evaluations", evaluations.HandleListEvaluations)

	http.HandleFunc("GET /api/v1/criteria", criteria.HandleListCriteria)
	http.HandleFunc("POST /api/v1/criteria", criteria.HandleCreateCriterion)
	http.HandleFunc("PUT /api/v1/criteria/{id}", criteria.HandleUpdateCriterion)

	http.HandleFunc("POST /api/v1/auth/token", auth.HandleIssueToken)

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting lagkaka server on %s", service.Config.Server.Port)
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Lagkaka server failed: %v", err)
	}
}
