package core

import (
	"github.com/rs/zerolog/log"
)

// NoticeEncoder turns a broadcast text into a wire frame.
type NoticeEncoder interface {
	EncodeNotice(text string) (Frame, error)
}

// Recipient is one addressee of a broadcast.
type Recipient struct {
	Username string
	Conn     SignalConnection
}

// Dispatcher fans a notice out to a set of recipients. A failing recipient
// never stops delivery to the rest.
type Dispatcher struct {
	enc NoticeEncoder
}

func NewDispatcher(enc NoticeEncoder) *Dispatcher {
	return &Dispatcher{enc: enc}
}

func (d *Dispatcher) Broadcast(recipients []Recipient, text string) PublishResult {
	res := PublishResult{}
	frame, err := d.enc.EncodeNotice(text)
	if err != nil {
		log.Error().Err(err).Str("module", "core.dispatcher").Msg("encode notice")
		return res
	}
	for _, rc := range recipients {
		if err := rc.Conn.TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, DroppedDelivery{
				Username: rc.Username,
				Conn:     rc.Conn.ID(),
				Err:      err,
			})
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.dispatcher").Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

// Unicast delivers one frame outside of a broadcast.
func Unicast(conn SignalConnection, f Frame) error {
	if conn == nil {
		return ErrConnClosed
	}
	return conn.TrySend(f)
}
