// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

/*
handlers_stream.go - Report Generation over WebSocket

Protocol:
 1. Client connects to /api/v1/wrapped/{year}/stream
 2. Client sends {"access_token": "...", "top_n": 5, ...} within startWait
 3. Server sends {"type": "progress", ...} per collection page
 4. Server sends one {"type": "report"} or {"type": "error"} and closes

The token travels in the first message rather than the URL so it stays out
of access logs. Closing the socket cancels generation.
*/

//nolint:staticcheck // File documentation, not package doc
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/malwrapped/internal/logging"
	"github.com/tomtom215/malwrapped/internal/metrics"
	"github.com/tomtom215/malwrapped/internal/models"
	"github.com/tomtom215/malwrapped/internal/validation"
	"github.com/tomtom215/malwrapped/internal/wrapped"
)

const (
	streamWriteWait = 10 * time.Second
	startWait       = 10 * time.Second
	maxStartMessage = 8 * 1024
)

// Stream message types.
const (
	StreamTypeProgress = "progress"
	StreamTypeReport   = "report"
	StreamTypeError    = "error"
)

// StreamStart is the first client message.
type StreamStart struct {
	AccessToken              string `json:"access_token" validate:"required,max=4096"`
	TopN                     int    `json:"top_n,omitempty" validate:"omitempty,min=1,max=50"`
	IncludeUnknownPopularity *bool  `json:"include_unknown_popularity,omitempty"`
}

// StreamMessage is a server message.
type StreamMessage struct {
	Type     string            `json:"type"`
	Progress *wrapped.Progress `json:"progress,omitempty"`
	Report   *wrapped.Report   `json:"report,omitempty"`
	Partial  bool              `json:"partial,omitempty"`
	Error    *models.APIError  `json:"error,omitempty"`
}

// StreamWrapped generates a report while streaming progress.
func (h *Handler) StreamWrapped(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "year must be a number", nil)
		return
	}
	if err := h.reports.ValidateYear(year); err != nil {
		respondServiceError(w, err)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}
	defer conn.Close()

	metrics.StreamConnections.Inc()
	defer metrics.StreamConnections.Dec()

	start, err := readStart(conn)
	if err != nil {
		writeStreamError(conn, err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go watchClose(conn, cancel)

	report, err := h.reports.Generate(ctx, wrapped.GenerateRequest{
		Token:                    start.AccessToken,
		Year:                     year,
		TopN:                     start.TopN,
		IncludeUnknownPopularity: start.IncludeUnknownPopularity,
		Progress: func(p wrapped.Progress) {
			_ = writeStream(conn, StreamMessage{Type: StreamTypeProgress, Progress: &p})
		},
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			logging.Ctx(r.Context()).Debug().Msg("Stream client went away during generation")
			return
		}
		writeStreamError(conn, err)
		return
	}

	if err := writeStream(conn, StreamMessage{Type: StreamTypeReport, Report: report, Partial: !report.Complete()}); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to send report over websocket")
		return
	}
	closeStream(conn, websocket.CloseNormalClosure, "done")
}

func readStart(conn *websocket.Conn) (*StreamStart, error) {
	conn.SetReadLimit(maxStartMessage)
	if err := conn.SetReadDeadline(time.Now().Add(startWait)); err != nil {
		return nil, err
	}

	var start StreamStart
	if err := conn.ReadJSON(&start); err != nil {
		return nil, errMalformedBody
	}
	if verr := validation.ValidateStruct(&start); verr != nil {
		return nil, verr
	}
	return &start, conn.SetReadDeadline(time.Time{})
}

// watchClose cancels generation once the client stops reading. Clients send
// nothing after the start message, so any read result ends the watch.
func watchClose(conn *websocket.Conn, cancel context.CancelFunc) {
	for {
		if _, _, err := conn.NextReader(); err != nil {
			cancel()
			return
		}
	}
}

func writeStream(conn *websocket.Conn, msg StreamMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func writeStreamError(conn *websocket.Conn, err error) {
	_, code, message := classifyError(err)
	if errors.Is(err, errMalformedBody) {
		code, message = "VALIDATION_ERROR", "first message must be a JSON start object"
	}
	_ = writeStream(conn, StreamMessage{Type: StreamTypeError, Error: &models.APIError{Code: code, Message: message}})
	closeStream(conn, websocket.ClosePolicyViolation, code)
}

func closeStream(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(streamWriteWait))
}
