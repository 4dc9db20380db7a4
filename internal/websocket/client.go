package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xingkongliang/text-to-speech-app/domain"
)

// Subscribe connects to an event stream at rawURL and calls onEvent for every
// synthesis event until ctx is done or the server closes the connection.
// The hello frame is passed to onHello when it is not nil.
func Subscribe(
	ctx context.Context,
	rawURL string,
	token string,
	onHello func(HelloMessage),
	onEvent func(domain.SynthesisEvent),
) error {
	wsURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid event stream url: %w", err)
	}

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket connection failed with status %d: %w", resp.StatusCode, err)
		}
		return fmt.Errorf("websocket connection failed: %w", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Unblock ReadMessage when the caller gives up
	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				return nil
			}
			return fmt.Errorf("failed to read event: %w", err)
		}

		var envelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(payload, &envelope); err != nil {
			continue
		}

		if envelope.Type == string(MessageTypeHello) {
			var hello HelloMessage
			if onHello != nil && json.Unmarshal(payload, &hello) == nil {
				onHello(hello)
			}
			continue
		}

		var event domain.SynthesisEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			continue
		}
		onEvent(event)
	}
}
