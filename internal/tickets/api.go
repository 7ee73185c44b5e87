package tickets

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/xeipuuv/gojsonschema"

	commonerrors "helpdesk-bot/internal/common/errors"
	"helpdesk-bot/internal/common/logger"
	"helpdesk-bot/internal/models"
)

// ticketSchema validates submission payloads before they reach the
// database. All three fields are required and must be non-empty strings.
const ticketSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["category", "severity", "description"],
	"additionalProperties": false,
	"properties": {
		"category": {"type": "string", "minLength": 1},
		"severity": {"type": "string", "minLength": 1},
		"description": {"type": "string", "minLength": 1}
	}
}`

const insertTicketQuery = `
	INSERT INTO tickets (category, severity, description, created_at)
	VALUES ($1, $2, $3, NOW())
	RETURNING id`

// API is the HTTP endpoint the Submit client posts to. It validates the
// payload, stores the ticket in Postgres and answers with the new id, or
// with the -1 sentinel when storage fails. Notifications are fired after
// the response; their failures never affect the caller.
type API struct {
	db       *sql.DB
	schema   *gojsonschema.Schema
	notifier *Notifier
	logger   logger.Logger
}

func NewAPI(db *sql.DB, notifier *Notifier, log logger.Logger) (*API, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(ticketSchema))
	if err != nil {
		return nil, fmt.Errorf("compile ticket schema: %w", err)
	}
	return &API{
		db:       db,
		schema:   schema,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"component": "tickets_api"}),
	}, nil
}

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/tickets", a.handleCreate)
}

func (a *API) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		a.reject(w, http.StatusBadRequest, commonerrors.New(commonerrors.ErrCodeTicketInvalidPayload, "Unreadable request body", err.Error()))
		return
	}

	validation, err := a.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil || !validation.Valid() {
		details := "not valid JSON"
		if err == nil {
			details = validation.Errors()[0].String()
		}
		a.reject(w, http.StatusBadRequest, commonerrors.New(commonerrors.ErrCodeTicketInvalidPayload, "Invalid ticket payload", details))
		return
	}

	var ticket models.Ticket
	if err := json.Unmarshal(body, &ticket); err != nil {
		a.reject(w, http.StatusBadRequest, commonerrors.New(commonerrors.ErrCodeTicketInvalidPayload, "Invalid ticket payload", err.Error()))
		return
	}

	var id int64
	err = a.db.QueryRowContext(r.Context(), insertTicketQuery, ticket.Category, ticket.Severity, ticket.Description).Scan(&id)
	if err != nil {
		a.reject(w, http.StatusOK, commonerrors.New(commonerrors.ErrCodeTicketInsertFailed, "Ticket insert failed", err.Error()))
		return
	}

	a.logger.Info("ticket created", map[string]interface{}{
		"ticketId": id,
		"category": ticket.Category,
		"severity": ticket.Severity,
	})

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, "%d", id)

	if a.notifier != nil {
		go a.notifier.TicketCreated(id, ticket)
	}
}

// reject answers with the -1 sentinel. Storage failures keep a 200 status
// so the sentinel, not the status code, is the failure signal the submit
// client keys on.
func (a *API) reject(w http.ResponseWriter, status int, stdErr *commonerrors.StandardError) {
	a.logger.WithError(stdErr).Warn("ticket rejected", map[string]interface{}{
		"code":     string(stdErr.Code),
		"category": commonerrors.GetErrorCategory(stdErr.Code),
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, "%d", RejectedID)
}
