package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/km-arc/userform/app/forms"
	foundation "github.com/km-arc/userform/framework/app"
	gohttp "github.com/km-arc/userform/framework/http"
	"github.com/km-arc/userform/framework/http/validation"
	"github.com/km-arc/userform/framework/metrics"
	"github.com/km-arc/userform/routing"
)

// Submission outcomes recorded in metrics.
const (
	statusAccepted = "accepted"
	statusRejected = "rejected"
	statusError    = "error"
)

// FormController renders the user data form and accepts its submissions.
// The submitter only ever sees values whose latest validation pass was empty.
type FormController struct {
	foundation.Controller

	AppName   string
	Schemas   validation.Source
	Views     *gohttp.ViewEngine
	Submitter forms.Submitter
	Metrics   *metrics.Collector // nil disables metrics
	Logger    *slog.Logger
	Now       func() time.Time // default: time.Now
	Debug     bool             // expose error text in 500 responses
}

// Routes registers the controller's endpoints on r.
//
//	GET  /                 form
//	POST /                 form post, re-rendered with errors or the receipt;
//	                       JSON requests are answered like /api/submissions
//	POST /api/validate     live validation, ?field= limits it to one field
//	POST /api/submissions  JSON submission
func (c *FormController) Routes(r *routing.Router) {
	r.Get("/", c.Show)
	r.Post("/", c.Store)
	r.Prefix("/api", func(api *routing.Router) {
		api.Post("/validate", c.Validate)
		api.Post("/submissions", c.Submit)
	})
}

type formPage struct {
	AppName string
	Title   string
	Inputs  []forms.Input
	Values  validation.Values
	Errors  map[string]string
}

type receiptPage struct {
	AppName string
	Title   string
	ID      string
	JSON    string
}

type validateResponse struct {
	Valid  bool `json:"valid"`
	Errors any  `json:"errors"`
}

// Show renders the empty form.
func (c *FormController) Show(w http.ResponseWriter, r *http.Request) {
	c.renderForm(w, http.StatusOK, validation.Values{}, map[string]string{})
}

// Store handles the HTML form post.
func (c *FormController) Store(w http.ResponseWriter, r *http.Request) {
	if c.Request(r).IsJSON() {
		c.Submit(w, r)
		return
	}

	schema := c.Schemas.Schema()
	values, err := c.Request(r).Snapshot(schema.Fields())
	if err != nil {
		c.Response(w).Error(http.StatusBadRequest, err.Error())
		return
	}

	res := c.validate(schema, values)
	if !res.Valid() {
		c.Metrics.ObserveSubmission(forms.UserDataForm, statusRejected)
		c.renderForm(w, http.StatusUnprocessableEntity, values, res.Map())
		return
	}

	sub, err := forms.NewSubmission(values, c.now())
	if err != nil {
		if errs, ok := c.rejectUndecodable(w, r, err); ok {
			c.renderForm(w, http.StatusUnprocessableEntity, values, errs)
		}
		return
	}
	if !c.deliver(w, r, sub) {
		return
	}

	body, err := json.MarshalIndent(sub.Data.Redacted(), "", "  ")
	if err != nil {
		c.Response(w).ServerError()
		return
	}
	c.Views.ViewWithLayout(w, http.StatusOK, "layout", "submitted", receiptPage{
		AppName: c.AppName,
		Title:   "Submitted",
		ID:      sub.ID.String(),
		JSON:    string(body),
	})
}

// Validate runs a validation pass without submitting. It always answers 200;
// the verdict is in the body.
func (c *FormController) Validate(w http.ResponseWriter, r *http.Request) {
	req := c.Request(r)
	res := c.Response(w)

	schema := c.Schemas.Schema()
	values, err := req.Snapshot(schema.Fields())
	if err != nil {
		res.Error(http.StatusBadRequest, err.Error())
		return
	}

	if field := req.Query("field"); field != "" {
		if !schema.Has(field) {
			res.Error(http.StatusNotFound, "unknown field "+field)
			return
		}
		errs := map[string]string{}
		msg, ok := validation.ValidateField(schema, values, field)
		if !ok {
			errs[field] = msg
		}
		res.JSON(http.StatusOK, validateResponse{Valid: ok, Errors: errs})
		return
	}

	result := c.validate(schema, values)
	res.JSON(http.StatusOK, validateResponse{Valid: result.Valid(), Errors: result})
}

// Submit handles JSON submissions: 422 with the error map, or 201 with the
// submission ID.
func (c *FormController) Submit(w http.ResponseWriter, r *http.Request) {
	schema := c.Schemas.Schema()
	values, err := c.Request(r).Snapshot(schema.Fields())
	if err != nil {
		c.Response(w).Error(http.StatusBadRequest, err.Error())
		return
	}

	res := c.validate(schema, values)
	if !res.Valid() {
		c.Metrics.ObserveSubmission(forms.UserDataForm, statusRejected)
		c.Response(w).ValidationError(res)
		return
	}

	sub, err := forms.NewSubmission(values, c.now())
	if err != nil {
		if errs, ok := c.rejectUndecodable(w, r, err); ok {
			c.Response(w).JSON(http.StatusUnprocessableEntity, map[string]any{"errors": errs})
		}
		return
	}
	if !c.deliver(w, r, sub) {
		return
	}
	c.Response(w).Created(map[string]any{
		"id":         sub.ID,
		"receivedAt": sub.ReceivedAt,
	})
}

// ── helpers ─────────────────────────────────────────────────────────────────

func (c *FormController) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *FormController) validate(schema *validation.Schema, values validation.Values) validation.Result {
	start := time.Now()
	res := validation.Validate(schema, values)
	c.Metrics.ObservePass(forms.UserDataForm, res, time.Since(start))
	return res
}

// rejectUndecodable handles values that passed validation but do not decode,
// such as a birth date the lenient date rule let through. For a field error
// it returns the error map for the caller to render; anything else is
// answered here with a 500.
func (c *FormController) rejectUndecodable(w http.ResponseWriter, r *http.Request, err error) (map[string]string, bool) {
	var fe *forms.FieldError
	if !errors.As(err, &fe) {
		c.Logger.ErrorContext(r.Context(), "decode failed", slog.Any("error", err))
		c.serverError(w, err)
		return nil, false
	}
	c.Metrics.ObserveSubmission(forms.UserDataForm, statusRejected)
	return map[string]string{fe.Field: fe.Message}, true
}

// deliver hands a decoded submission to the submitter. On failure it writes
// the error response itself and reports false.
func (c *FormController) deliver(w http.ResponseWriter, r *http.Request, sub forms.Submission) bool {
	if err := c.Submitter.Submit(r.Context(), sub); err != nil {
		c.Metrics.ObserveSubmission(forms.UserDataForm, statusError)
		c.Logger.ErrorContext(r.Context(), "submission failed",
			slog.String("id", sub.ID.String()),
			slog.Any("error", err),
		)
		c.serverError(w, err)
		return false
	}
	c.Metrics.ObserveSubmission(forms.UserDataForm, statusAccepted)
	return true
}

func (c *FormController) serverError(w http.ResponseWriter, err error) {
	if c.Debug {
		c.Response(w).ServerError(err.Error())
		return
	}
	c.Response(w).ServerError()
}

// renderForm draws the form with values and errors. Password fields are
// never echoed back.
func (c *FormController) renderForm(w http.ResponseWriter, status int, values validation.Values, errs map[string]string) {
	shown := values.Clone()
	for _, in := range forms.Inputs() {
		if in.Type == "password" {
			delete(shown, in.Name)
		}
	}
	c.Views.ViewWithLayout(w, status, "layout", "form", formPage{
		AppName: c.AppName,
		Title:   "User Data",
		Inputs:  forms.Inputs(),
		Values:  shown,
		Errors:  errs,
	})
}
