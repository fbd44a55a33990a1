package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/config"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/model/speech"
)

// ErrEmptyText is returned when there is nothing to synthesize.
var ErrEmptyText = errors.New("tts text is empty")

// errEmptyAudio is returned when the stream finished without audio.
var errEmptyAudio = errors.New("tts audio is empty")

// TTSClient speaks the unidirectional streaming synthesis protocol over a
// websocket: one JSON request frame out, audio frames back until the
// session-finished event or a last-packet flag.
type TTSClient struct {
	cfg    config.SpeechConfig
	dialer *websocket.Dialer
	log    *zap.Logger
}

// NewTTSClient creates a client for cfg.Endpoint.
func NewTTSClient(cfg config.SpeechConfig, log *zap.Logger) *TTSClient {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TTSClient{
		cfg:    cfg,
		dialer: &websocket.Dialer{HandshakeTimeout: timeout},
		log:    log,
	}
}

type ttsRequestBody struct {
	User struct {
		UID string `json:"uid"`
	} `json:"user"`
	ReqParams struct {
		Speaker     string         `json:"speaker"`
		Text        string         `json:"text"`
		AudioParams ttsAudioParams `json:"audio_params"`
		Additions   string         `json:"additions,omitempty"`
		Language    string         `json:"language,omitempty"`
	} `json:"req_params"`
}

type ttsAudioParams struct {
	Format      string  `json:"format"`
	SampleRate  int     `json:"sample_rate"`
	SpeedRatio  float32 `json:"speed_ratio,omitempty"`
	VolumeRatio float32 `json:"volume_ratio,omitempty"`
}

type ttsServerMessage struct {
	ReqID    string `json:"reqid"`
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Sequence int    `json:"sequence"`
	Data     string `json:"data"`
	Addition struct {
		Duration string `json:"duration,omitempty"`
	} `json:"addition,omitempty"`
}

// Synthesize streams req.Text through the synthesis service and collects the audio.
func (c *TTSClient) Synthesize(ctx context.Context, req speech.TTSRequest) (*speech.TTSResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}

	appID, token, err := resolveCredentials(c.cfg)
	if err != nil {
		return nil, err
	}

	connectID := uuid.NewString()
	header := http.Header{}
	header.Set("X-Api-App-Key", appID)
	header.Set("X-Api-Access-Key", token)
	header.Set("X-Api-Resource-Id", c.cfg.ResourceID)
	header.Set("X-Api-Connect-Id", connectID)

	conn, resp, err := c.dialer.DialContext(ctx, c.cfg.Endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("connect tts websocket: %w", err)
	}
	defer conn.Close()
	if resp != nil {
		if logID := resp.Header.Get("X-Tt-Logid"); logID != "" {
			c.log.Debug("tts connected", zap.String("logid", logID))
		}
	}

	// unblock ReadMessage when the caller gives up
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	format := c.format()
	body, err := json.Marshal(c.buildRequest(req, format))
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}
	frame, err := NewClientRequest(body, NoCompression).MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode tts request: %w", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return nil, fmt.Errorf("send tts request: %w", err)
	}

	var (
		audio    bytes.Buffer
		reqID    string
		duration int64
	)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("read tts response: %w", err)
		}

		msg, err := ReadFrame(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode tts frame: %w", err)
		}
		payload, err := decodePayload(msg.Payload, msg.Compression)
		if err != nil {
			return nil, fmt.Errorf("decompress tts frame: %w", err)
		}

		switch msg.Type {
		case ErrorMessage:
			return nil, fmt.Errorf("tts error %d: %s", msg.ErrorCode, string(payload))

		case AudioOnlyServerResponse:
			audio.Write(payload)
			if !msg.IsLast() {
				continue
			}

		case FullServerResponse:
			if msg.hasEvent() && msg.Event == EventSessionFailed {
				return nil, fmt.Errorf("tts session failed: %s", string(payload))
			}

			var serverMsg ttsServerMessage
			if len(payload) > 0 {
				if err := json.Unmarshal(payload, &serverMsg); err != nil {
					c.log.Debug("tts payload is not json", zap.Error(err))
				} else {
					// 3000 is the service's success code
					if serverMsg.Code != 0 && serverMsg.Code != 3000 {
						return nil, fmt.Errorf("tts api error %d: %s", serverMsg.Code, serverMsg.Message)
					}
					if serverMsg.ReqID != "" {
						reqID = serverMsg.ReqID
					}
					if ms, err := strconv.ParseInt(serverMsg.Addition.Duration, 10, 64); err == nil {
						duration = ms
					}
					if serverMsg.Data != "" {
						chunk, err := base64.StdEncoding.DecodeString(serverMsg.Data)
						if err != nil {
							return nil, fmt.Errorf("decode tts audio chunk: %w", err)
						}
						audio.Write(chunk)
					}
				}
			}

			finished := (msg.hasEvent() && msg.Event == EventSessionFinished) || msg.IsLast() || serverMsg.Sequence < 0
			if !finished {
				continue
			}

		default:
			c.log.Debug("unexpected tts frame", zap.Uint8("type", uint8(msg.Type)))
			continue
		}

		if audio.Len() == 0 {
			return nil, errEmptyAudio
		}
		if reqID == "" {
			reqID = connectID
		}
		return &speech.TTSResponse{
			AudioData: audio.Bytes(),
			Duration:  duration,
			Format:    format,
			RequestID: reqID,
			CreatedAt: time.Now().UTC(),
		}, nil
	}
}

func (c *TTSClient) format() string {
	format := strings.ToLower(strings.TrimSpace(c.cfg.Format))
	if format == "" || format == "wav" {
		// the streaming endpoint cannot emit a wav container
		return "mp3"
	}
	return format
}

func (c *TTSClient) buildRequest(req speech.TTSRequest, format string) *ttsRequestBody {
	body := &ttsRequestBody{}
	body.User.UID = uuid.NewString()

	body.ReqParams.Speaker = firstNonEmpty(req.Voice, c.cfg.Voice)
	body.ReqParams.Text = req.Text
	body.ReqParams.Language = firstNonEmpty(req.Language, c.cfg.Language)
	body.ReqParams.Additions = `{"disable_markdown_filter":false}`

	body.ReqParams.AudioParams.Format = format
	body.ReqParams.AudioParams.SampleRate = 24000

	speed := req.Speed
	if speed <= 0 {
		speed = c.cfg.Speed
	}
	if speed > 0 && speed != 1.0 {
		body.ReqParams.AudioParams.SpeedRatio = speed
	}

	volume := req.Volume
	if volume <= 0 {
		volume = c.cfg.Volume
	}
	if volume > 0 && volume != 1.0 {
		body.ReqParams.AudioParams.VolumeRatio = volume
	}

	return body
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
