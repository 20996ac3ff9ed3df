package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"scireasoner/internal/server/middleware"
	"scireasoner/pkg/query"
)

// QueryHandler answers one of the four graph queries against the current
// graph.
func QueryHandler(c echo.Context) error {
	type queryParameters struct {
		HypothesisID      string `json:"hypothesis_id"`
		HypothesisText    string `json:"hypothesis_text"`
		EntityID          string `json:"entity_id"`
		EntityName        string `json:"entity_name"`
		ClaimID           string `json:"claim_id"`
		ClaimText         string `json:"claim_text"`
		MinSupport        *int   `json:"min_support"`
		MaxContradictions *int   `json:"max_contradictions"`
	}

	type queryBody struct {
		QueryType  string          `json:"query_type" validate:"required,oneof=hypothesis_support entity_evolution unvalidated_hypotheses claim_relationships"`
		Parameters queryParameters `json:"parameters"`
	}

	type queryResponse struct {
		Message string `json:"message"`
		Result  any    `json:"result,omitempty"`
	}

	data := new(queryBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, queryResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, queryResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	g := app.Graph.Get()
	if g == nil {
		return c.JSON(http.StatusBadRequest, queryResponse{
			Message: "Graph not built",
		})
	}

	// Id parameters take precedence over free-text ones.
	firstOf := func(values ...string) string {
		for _, v := range values {
			if v != "" {
				return v
			}
		}
		return ""
	}

	engine := query.NewEngine(g)
	params := data.Parameters
	var result any
	switch data.QueryType {
	case "hypothesis_support":
		result = engine.QueryHypothesisSupport(firstOf(params.HypothesisID, params.HypothesisText))
	case "entity_evolution":
		result = engine.QueryEntityEvolution(firstOf(params.EntityID, params.EntityName))
	case "unvalidated_hypotheses":
		minSupport, maxContradictions := 2, 1
		if params.MinSupport != nil {
			minSupport = *params.MinSupport
		}
		if params.MaxContradictions != nil {
			maxContradictions = *params.MaxContradictions
		}
		result = engine.QueryUnvalidatedHypotheses(minSupport, maxContradictions)
	case "claim_relationships":
		result = engine.QueryClaimRelationships(firstOf(params.ClaimID, params.ClaimText))
	}

	return c.JSON(http.StatusOK, queryResponse{
		Message: "OK",
		Result:  result,
	})
}
