package controllers

import (
	"net/http"

	"github.com/bakehouse-hq/bakehouse-backend/api/responses"
	"github.com/bakehouse-hq/bakehouse-backend/internal/loyalty"
	pkgerrors "github.com/bakehouse-hq/bakehouse-backend/pkg/errors"
	"github.com/bakehouse-hq/bakehouse-backend/pkg/logger"
)

// LoyaltyHistory returns the caller's points balance and ledger, newest first.
func LoyaltyHistory(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loyalty service unavailable"))
			return
		}

		caller, err := callerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), caller.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
