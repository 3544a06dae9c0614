package gitea

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

const (
	connectTimeout = 10 * time.Second
	socketTimeout  = 60 * time.Second
	maxErrorBody   = 2048
)

var errSocketTimeout = errors.New("socket timeout while reading the response")

// idleTimeoutReader pushes back the deadline timer after every read, so that only a
// stalled body fails, not a long one.
type idleTimeoutReader struct {
	body    io.Reader
	timer   *time.Timer
	timeout time.Duration
}

func (r *idleTimeoutReader) Read(p []byte) (int, error) {
	n, err := r.body.Read(p)
	r.timer.Reset(r.timeout)
	return n, err
}

func newHTTPClient(proxy *entities.ProxySettings) *http.Client {
	dialer := &net.Dialer{Timeout: connectTimeout, KeepAlive: 30 * time.Second}
	//nolint:exhaustruct // Minimal Transport initialization with required fields only
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: socketTimeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}
	if proxyURL := proxy.URL(); proxyURL != nil {
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return &http.Client{Transport: transport}
}

// doRequest sends a JSON request and returns the response body. Any status not in
// accepted, and any transport failure, is returned as *entities.ForgeRequestError.
// A 204 response yields a nil body.
func (it *ForgeRepository) doRequest(
	ctx context.Context,
	method, endpoint string,
	body interface{},
	accepted ...int,
) ([]byte, error) {
	url := it.serverURL + endpoint

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	reqCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	req, err := http.NewRequestWithContext(reqCtx, method, url, reader)
	if err != nil {
		return nil, &entities.ForgeRequestError{Method: method, URL: url, Message: err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if it.credentials != nil {
		req.SetBasicAuth(it.credentials.Username, it.credentials.Password)
	}

	logger.Debugf("%s %s", method, url)
	resp, err := it.httpClient.Do(req)
	if err != nil {
		return nil, &entities.ForgeRequestError{Method: method, URL: url, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	timer := time.AfterFunc(it.readTimeout, func() { cancel(errSocketTimeout) })
	defer timer.Stop()

	respBody, err := io.ReadAll(&idleTimeoutReader{body: resp.Body, timer: timer, timeout: it.readTimeout})
	if err != nil {
		if cause := context.Cause(reqCtx); errors.Is(cause, errSocketTimeout) {
			err = cause
		}
		return nil, &entities.ForgeRequestError{
			StatusCode: resp.StatusCode,
			Method:     method,
			URL:        url,
			Message:    fmt.Sprintf("failed to read response: %v", err),
			Err:        err,
		}
	}

	if !slices.Contains(accepted, resp.StatusCode) {
		message := strings.TrimSpace(string(respBody))
		if len(message) > maxErrorBody {
			message = message[:maxErrorBody]
		}
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, &entities.ForgeRequestError{
			StatusCode: resp.StatusCode,
			Method:     method,
			URL:        url,
			Message:    message,
		}
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	return respBody, nil
}

// get decodes the 200 response of endpoint into out.
func (it *ForgeRepository) get(ctx context.Context, endpoint string, out interface{}) error {
	data, err := it.doRequest(ctx, http.MethodGet, endpoint, nil, http.StatusOK)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response of %s: %w", endpoint, err)
	}
	return nil
}

// post sends body and, when out is not nil and the forge returned content, decodes the response into it.
func (it *ForgeRepository) post(ctx context.Context, endpoint string, body, out interface{}) error {
	data, err := it.doRequest(
		ctx, http.MethodPost, endpoint, body,
		http.StatusOK, http.StatusCreated, http.StatusNoContent,
	)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response of %s: %w", endpoint, err)
	}
	return nil
}
