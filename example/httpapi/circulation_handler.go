package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/shelfwise/circulation-engine-go/example/features/command/fulfillreservation"
	"github.com/shelfwise/circulation-engine-go/example/features/command/issueloan"
	"github.com/shelfwise/circulation-engine-go/example/features/command/returnloan"
	"github.com/shelfwise/circulation-engine-go/example/shared/core"
	"github.com/shelfwise/circulation-engine-go/inventory"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CirculationHandler wires the engine and the command handlers into HTTP
// endpoints.
type CirculationHandler struct {
	Engine             *inventory.Engine
	IssueLoan          issueloan.CommandHandler
	ReturnLoan         returnloan.CommandHandler
	FulfillReservation fulfillreservation.CommandHandler
}

// Register mounts the circulation endpoints on the router.
func (h *CirculationHandler) Register(r *chi.Mux) {
	r.Post("/availability-checks", h.checkAvailability)
	r.Post("/allocations", h.allocateReservation)
	r.Post("/loans", h.issueLoan)
	r.Post("/loans/{id}/return", h.returnLoan)
	r.Post("/reservations/{id}/fulfill", h.fulfillReservation)
}

type availabilityCheckRequest struct {
	CopyID   inventory.CopyIDInt `json:"copy_id"`
	LoanDate int                 `json:"loan_date"`
	DueDate  int                 `json:"due_date"`
}

type availabilityCheckResponse struct {
	Allowed    bool `json:"allowed"`
	ConflictOn int  `json:"conflict_on,omitempty"`
	Shortage   int  `json:"shortage,omitempty"`
}

func (h *CirculationHandler) checkAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}

	check, err := h.Engine.CheckAvailability(r.Context(), req.CopyID, inventory.Date(req.LoanDate), inventory.Date(req.DueDate))
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, availabilityCheckResponse{
		Allowed:    check.Allowed,
		ConflictOn: int(check.ConflictOn),
		Shortage:   check.Shortage,
	})
}

type allocationRequest struct {
	ReservationID inventory.ReservationIDInt `json:"reservation_id"`
}

type pickResponse struct {
	LocationID   inventory.LocationIDInt `json:"location_id"`
	LocationName string                  `json:"location_name"`
	Count        int                     `json:"count"`
}

type allocationResponse struct {
	Requested int            `json:"requested"`
	Picks     []pickResponse `json:"picks"`
	Shortfall int            `json:"shortfall"`
}

func (h *CirculationHandler) allocateReservation(w http.ResponseWriter, r *http.Request) {
	var req allocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}

	allocation, err := h.Engine.AllocateReservation(r.Context(), req.ReservationID)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAllocationResponse(allocation))
}

type issueLoanRequest struct {
	CopyID    inventory.CopyIDInt `json:"copy_id"`
	StudentID core.StudentIDInt   `json:"student_id"`
	StaffID   core.StaffIDInt     `json:"staff_id"`
	LoanDate  int                 `json:"loan_date"`
	DueDate   int                 `json:"due_date"`
}

type issueLoanResponse struct {
	LoanID core.LoanIDInt `json:"loan_id"`
}

type rejectionResponse struct {
	RejectionReason string `json:"rejection_reason"`
	ConflictOn      int    `json:"conflict_on,omitempty"`
	Shortage        int    `json:"shortage,omitempty"`
	Shortfall       int    `json:"shortfall,omitempty"`
}

func (h *CirculationHandler) issueLoan(w http.ResponseWriter, r *http.Request) {
	var req issueLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}

	command := issueloan.BuildCommand(
		req.CopyID, req.StudentID, req.StaffID,
		inventory.Date(req.LoanDate), inventory.Date(req.DueDate),
	)

	result, err := h.IssueLoan.Handle(r.Context(), command)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	if !result.Committed {
		writeJSON(w, http.StatusConflict, rejectionResponse{
			RejectionReason: result.RejectionReason,
			ConflictOn:      int(result.Check.ConflictOn),
			Shortage:        result.Check.Shortage,
		})
		return
	}

	writeJSON(w, http.StatusCreated, issueLoanResponse{LoanID: result.LoanID})
}

type returnLoanRequest struct {
	ReturnedOn int `json:"returned_on"`
}

type returnLoanResponse struct {
	LoanID     core.LoanIDInt      `json:"loan_id"`
	CopyID     inventory.CopyIDInt `json:"copy_id"`
	ReturnedOn int                 `json:"returned_on"`
}

func (h *CirculationHandler) returnLoan(w http.ResponseWriter, r *http.Request) {
	loanID, idErr := parseIDParam(r, "id")
	if idErr != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	var req returnLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}

	command := returnloan.BuildCommand(loanID, inventory.Date(req.ReturnedOn))

	result, err := h.ReturnLoan.Handle(r.Context(), command)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, returnLoanResponse{
		LoanID:     result.Loan.ID,
		CopyID:     result.Loan.CopyID,
		ReturnedOn: int(result.Loan.ReturnedOn),
	})
}

func (h *CirculationHandler) fulfillReservation(w http.ResponseWriter, r *http.Request) {
	reservationID, idErr := parseIDParam(r, "id")
	if idErr != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	command := fulfillreservation.BuildCommand(reservationID)

	result, err := h.FulfillReservation.Handle(r.Context(), command)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	if !result.Committed {
		writeJSON(w, http.StatusConflict, rejectionResponse{
			RejectionReason: result.RejectionReason,
			Shortfall:       result.Allocation.Shortfall,
		})
		return
	}

	writeJSON(w, http.StatusOK, toAllocationResponse(result.Allocation))
}

func toAllocationResponse(allocation inventory.Allocation) allocationResponse {
	picks := make([]pickResponse, 0, len(allocation.Picks))
	for _, pick := range allocation.Picks {
		picks = append(picks, pickResponse{
			LocationID:   pick.LocationID,
			LocationName: pick.LocationName,
			Count:        pick.Count,
		})
	}

	return allocationResponse{
		Requested: allocation.Requested,
		Picks:     picks,
		Shortfall: allocation.Shortfall,
	}
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// writeMappedError translates engine and store errors to HTTP status codes.
func writeMappedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrInvalidDateRange), errors.Is(err, inventory.ErrInvalidQuantity):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, inventory.ErrCopyNotFound), errors.Is(err, inventory.ErrReservationNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrLoanNotActive), errors.Is(err, core.ErrReservationNotPending):
		writeJSONError(w, http.StatusConflict, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}
