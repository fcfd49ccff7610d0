package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	openDrafts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "composer_open_drafts",
		Help: "Drafts currently held in memory.",
	})
	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "composer_submissions_total",
		Help: "Submit attempts by outcome (success, invalid, failed).",
	}, []string{"result"})
	imports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "composer_imports_total",
		Help: "File imports by format and outcome.",
	}, []string{"format", "result"})
	generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "composer_generations_total",
		Help: "AI generation requests by outcome.",
	}, []string{"result"})
)
