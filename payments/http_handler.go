package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"
)

const (
	maxWebhookBodyBytes  = int64(65536)
	maxCheckoutBodyBytes = int64(4096)
	stripeSignatureHdr   = "Stripe-Signature"

	msgInvalidPayload   = "Invalid payload"
	msgInvalidSignature = "Invalid signature"
	msgWebhookAccepted  = "success"
)

type PaymentHTTPHandler struct {
	service        PaymentService
	dispatcher     *Dispatcher
	endpointSecret string
	logger         *slog.Logger
}

func NewPaymentHTTPHandler(service PaymentService, dispatcher *Dispatcher, endpointSecret string, logger *slog.Logger) *PaymentHTTPHandler {
	return &PaymentHTTPHandler{
		service:        service,
		dispatcher:     dispatcher,
		endpointSecret: endpointSecret,
		logger:         logger,
	}
}

func (h *PaymentHTTPHandler) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /product/v1/checkout", h.handleCreateCheckoutSession)
	mux.HandleFunc("GET /product/v1/balance", h.handleGetBalance)
	mux.HandleFunc("POST /product/v1/webhook", h.handleWebhook)
	mux.HandleFunc("GET /health", h.handleHealth)
}

// handleCreateCheckoutSession: POST /product/v1/checkout
//
// @Summary      Create checkout session
// @Description  Creates a hosted Stripe checkout session for a single product priced in major currency units
// @Tags         Stripe Controller
// @Accept       json
// @Produce      json
// @Param        request  body      ProductRequest  true  "Amount and optional currency (default USD)"
// @Success      201      {object}  StripeResponse
// @Failure      400      {object}  StripeResponse
// @Failure      413      {object}  StripeResponse
// @Failure      500      {object}  StripeResponse
// @Router       /product/v1/checkout [post]
func (h *PaymentHTTPHandler) handleCreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCheckoutBodyBytes)

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("checkout body too large", slog.Int64("limit", tooLarge.Limit))
			respondJSON(w, http.StatusRequestEntityTooLarge, StripeResponse{
				Status:  statusLine(http.StatusRequestEntityTooLarge),
				Message: "Request body too large",
			})
			return
		}
		h.logger.Warn("failed to decode checkout request", slog.Any("error", err))
		respondJSON(w, http.StatusBadRequest, StripeResponse{
			Status:  statusLine(http.StatusBadRequest),
			Message: "Invalid request body",
		})
		return
	}

	resp, err := h.service.CreateCheckoutSession(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// handleGetBalance: GET /product/v1/balance
//
// @Summary      Get available balance
// @Description  Returns the first available balance entry of the Stripe account
// @Tags         Stripe Controller
// @Produce      json
// @Success      200  {object}  BalanceDTO
// @Failure      500  {object}  StripeResponse
// @Router       /product/v1/balance [get]
func (h *PaymentHTTPHandler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.service.GetBalance(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, balance)
}

// handleWebhook: POST /product/v1/webhook
//
// Why verify the signature before parsing?
// → The endpoint is public: anyone can POST a well-formed event
// → Only bytes signed with STRIPE_ENDPOINT_SECRET reach json.Unmarshal
// → So an unsigned body is "Invalid signature" even when it is also malformed
//
// @Summary      Receive Stripe webhook
// @Description  Verifies the Stripe-Signature header, parses the event and dispatches it by type
// @Tags         Stripe Controller
// @Accept       json
// @Produce      plain
// @Param        Stripe-Signature  header  string  true  "Stripe webhook signature"
// @Success      200  {string}  string  "success"
// @Failure      400  {string}  string  "Invalid signature or Invalid payload"
// @Failure      413  {string}  string  "Invalid payload"
// @Router       /product/v1/webhook [post]
func (h *PaymentHTTPHandler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("webhook body too large", slog.Int64("limit", tooLarge.Limit))
			respondText(w, http.StatusRequestEntityTooLarge, msgInvalidPayload)
			return
		}
		h.logger.Error("error reading webhook body", slog.Any("error", err))
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	err = webhook.ValidatePayloadWithTolerance(payload, r.Header.Get(stripeSignatureHdr), h.endpointSecret, webhook.DefaultTolerance)
	if err != nil {
		h.logger.Warn("webhook signature verification failed", slog.Any("error", err))
		respondText(w, http.StatusBadRequest, msgInvalidSignature)
		return
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		h.logger.Error("error while processing webhook", slog.Any("error", err))
		respondText(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	h.logger.Info("webhook event received",
		slog.String("event_id", event.ID),
		slog.String("event_type", string(event.Type)),
	)

	h.dispatcher.Dispatch(r.Context(), event)

	respondText(w, http.StatusOK, msgWebhookAccepted)
}

func (h *PaymentHTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondText(w, http.StatusOK, "ok")
}

// respondServiceError maps service errors onto one response shape:
// invalid input is 400, any provider failure is 500.
func (h *PaymentHTTPHandler) respondServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidAmount) {
		respondJSON(w, http.StatusBadRequest, StripeResponse{
			Status:  statusLine(http.StatusBadRequest),
			Message: err.Error(),
		})
		return
	}

	message := "internal error"
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		message = providerErr.Message()
	}

	respondJSON(w, http.StatusInternalServerError, StripeResponse{
		Status:  statusLine(http.StatusInternalServerError),
		Message: message,
	})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, body)
}
