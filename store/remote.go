package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lifeinfocus/focus/internal/models"
)

// Remote is a task store that talks to the focus task API over HTTP.
type Remote struct {
	client  *http.Client
	baseURL *url.URL
	token   string
}

// NewRemote returns a client for the API at baseURL. The token, if any, is
// sent as a bearer token on every request.
func NewRemote(
	baseURL, token string,
	timeout time.Duration,
) (*Remote, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme in %q", baseURL)
	}

	return &Remote{
		client:  &http.Client{Timeout: timeout},
		baseURL: u,
		token:   token,
	}, nil
}

func (r *Remote) Create(
	ctx context.Context,
	sess models.CompletedSession,
) (models.CompletedSession, error) {
	var saved models.CompletedSession

	if err := sess.Validate(); err != nil {
		return sess, err
	}

	body := models.NewTask{Task: sess.TaskName, Time: sess.SecondsWorked}

	err := r.do(ctx, http.MethodPost, "/task", nil, body, &saved)
	if err != nil {
		return sess, err
	}

	return saved, nil
}

func (r *Remote) Get(
	ctx context.Context,
	id string,
) (models.CompletedSession, error) {
	var sess models.CompletedSession

	err := r.do(ctx, http.MethodGet, "/task/"+url.PathEscape(id), nil, nil, &sess)

	return sess, err
}

func (r *Remote) List(
	ctx context.Context,
	f Filter,
) ([]models.CompletedSession, error) {
	q := url.Values{}

	if !f.Since.IsZero() {
		q.Set("since", f.Since.Format(time.RFC3339Nano))
	}

	if !f.Until.IsZero() {
		q.Set("until", f.Until.Format(time.RFC3339Nano))
	}

	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	var sessions []models.CompletedSession

	err := r.do(ctx, http.MethodGet, "/tasks", q, nil, &sessions)

	return sessions, err
}

func (r *Remote) Update(
	ctx context.Context,
	id string,
	upd models.SessionUpdate,
) (models.CompletedSession, error) {
	var sess models.CompletedSession

	if upd.Empty() {
		return sess, models.ErrEmptyUpdate
	}

	err := r.do(ctx, http.MethodPut, "/task/"+url.PathEscape(id), nil, upd, &sess)

	return sess, err
}

func (r *Remote) Delete(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/task/"+url.PathEscape(id), nil, nil, nil)
}

func (r *Remote) Close() error {
	r.client.CloseIdleConnections()
	return nil
}

func (r *Remote) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	in, out any,
) error {
	u := r.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	var body io.Reader

	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}

		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return errRemote.Fmt(method, path).Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp, method, path)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errRemote.Fmt(method, path).Wrap(err)
	}

	return nil
}

func decodeAPIError(resp *http.Response, method, path string) error {
	var payload models.ErrorResponse

	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload)

	apiErr := &payload.Error
	if apiErr.Message == "" {
		apiErr.Code = strconv.Itoa(resp.StatusCode)
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusNotFound {
		return errors.Join(ErrNotFound, apiErr)
	}

	return errRemote.Fmt(method, path).Wrap(apiErr)
}
