package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alkime/notes/internal/audio"
	"nhooyr.io/websocket"
)

const (
	deepgramEndpoint = "wss://api.deepgram.com/v1/listen"
	deepgramModel    = "nova-3"
	chunkDuration    = 0.2 // seconds of audio per websocket frame
)

// streamUpdate is one transcript hypothesis from a streaming backend.
type streamUpdate struct {
	Transcript string
	IsFinal    bool
}

// streamConn is a live streaming transcription connection.
type streamConn interface {
	Send(ctx context.Context, pcm []byte) error
	Finalize(ctx context.Context) error
	Recv(ctx context.Context) (streamUpdate, error)
	Close() error
}

type dialFunc func(ctx context.Context, cfg Config, dev *audio.DeviceConfig) (streamConn, error)

// Deepgram recognizes speech by streaming microphone audio to Deepgram's
// live transcription API.
type Deepgram struct {
	apiKey string
	dial   dialFunc
	opts   *options
}

// NewDeepgram returns a streaming recognizer using apiKey.
func NewDeepgram(apiKey string, opts ...Option) *Deepgram {
	d := &Deepgram{apiKey: apiKey, opts: newOptions(opts)}
	d.dial = d.dialWebsocket

	return d
}

func (d *Deepgram) Available() bool {
	return d.apiKey != "" && d.opts.newDevice != nil
}

func (d *Deepgram) New(cfg Config) (Recognition, error) {
	if !d.Available() {
		return nil, ErrUnavailable
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	eng := &streamEngine{cfg: cfg, dial: d.dial, opts: d.opts}

	return newCaptureSession("deepgram", d.opts.newDevice(), eng), nil
}

type deepgramResponse struct {
	Type    string `json:"type"`
	IsFinal bool   `json:"is_final"`
	Channel struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"channel"`
}

type deepgramConn struct {
	conn *websocket.Conn
}

func (d *Deepgram) dialWebsocket(ctx context.Context, cfg Config, dev *audio.DeviceConfig) (streamConn, error) {
	endpoint, err := url.Parse(deepgramEndpoint)
	if err != nil {
		return nil, err
	}

	q := endpoint.Query()
	q.Set("model", deepgramModel)
	q.Set("encoding", "linear16")
	q.Set("sample_rate", strconv.Itoa(dev.SampleRate))
	q.Set("channels", strconv.Itoa(dev.CaptureChannels))
	q.Set("interim_results", strconv.FormatBool(cfg.InterimResults))
	q.Set("punctuate", "true")
	if cfg.Lang != "" {
		q.Set("language", cfg.Lang)
	}
	endpoint.RawQuery = q.Encode()

	headers := http.Header{}
	headers.Set("Authorization", "Token "+d.apiKey)

	conn, resp, err := websocket.Dial(ctx, endpoint.String(), &websocket.DialOptions{HTTPHeader: headers})
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, NewError(KindServiceNotAllowed, err)
		}

		return nil, NewError(KindNetwork, err)
	}

	return &deepgramConn{conn: conn}, nil
}

func (c *deepgramConn) Send(ctx context.Context, pcm []byte) error {
	return c.conn.Write(ctx, websocket.MessageBinary, pcm)
}

func (c *deepgramConn) Finalize(ctx context.Context) error {
	return c.conn.Write(ctx, websocket.MessageText, []byte(`{"type":"Finalize"}`))
}

// Recv returns the next transcript. Non-result messages yield an empty
// update.
func (c *deepgramConn) Recv(ctx context.Context) (streamUpdate, error) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return streamUpdate{}, err
	}

	var resp deepgramResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return streamUpdate{}, fmt.Errorf("decode deepgram message: %w", err)
	}

	if resp.Type != "" && resp.Type != "Results" {
		return streamUpdate{}, nil
	}

	transcript := ""
	if len(resp.Channel.Alternatives) > 0 {
		transcript = resp.Channel.Alternatives[0].Transcript
	}

	return streamUpdate{
		Transcript: strings.TrimSpace(transcript),
		IsFinal:    resp.IsFinal,
	}, nil
}

func (c *deepgramConn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

// streamEngine relays PCM to a streaming connection and folds its updates
// into result groups: finals append, interims replace the trailing interim.
type streamEngine struct {
	cfg  Config
	dial dialFunc
	opts *options
}

func (e *streamEngine) run(ctx context.Context, pcm <-chan audio.DataPacket, emit func(Event)) error {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn, err := e.dial(streamCtx, e.cfg, e.opts.deviceConfig)
	if err != nil {
		return AsError(err)
	}
	defer conn.Close()

	updates := make(chan streamUpdate)
	recvErr := make(chan error, 1)

	go func() {
		for {
			u, err := conn.Recv(streamCtx)
			if err != nil {
				recvErr <- err
				return
			}

			select {
			case updates <- u:
			case <-streamCtx.Done():
				return
			}
		}
	}()

	var (
		chunk     []byte
		finals    []Result
		heard     bool
		silent    int
		chunkSize = int(chunkDuration * float64(e.opts.deviceConfig.BytesPerSecond()))
		budget    = e.opts.noSpeechBytes()
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case packet, ok := <-pcm:
			if !ok {
				if len(chunk) > 0 {
					_ = conn.Send(streamCtx, chunk)
				}
				_ = conn.Finalize(streamCtx)

				return nil
			}

			chunk = append(chunk, packet...)

			if !heard {
				silent += len(packet)
				if budget > 0 && silent >= budget {
					return NewError(KindNoSpeech, nil)
				}
			}

			if len(chunk) < chunkSize {
				continue
			}

			if err := conn.Send(streamCtx, chunk); err != nil {
				return NewError(KindNetwork, err)
			}
			chunk = nil

		case u := <-updates:
			if u.Transcript == "" {
				continue
			}
			heard = true

			text := spaced(finals, u.Transcript)
			if u.IsFinal {
				finals = append(finals, finalResult(text))
				emit(Event{Results: cloneResults(finals)})

				if !e.cfg.Continuous {
					return errSessionComplete
				}

				continue
			}

			if !e.cfg.InterimResults {
				continue
			}

			results := append(cloneResults(finals), Result{
				Alternatives: []Alternative{{Transcript: text}},
			})
			emit(Event{Results: results})

		case err := <-recvErr:
			if ctx.Err() != nil {
				return nil
			}

			return NewError(KindNetwork, err)
		}
	}
}
