package messages

import (
	"fmt"

	"github.com/hashicorp/go-msgpack/v2/codec"
)

var handle = &codec.MsgpackHandle{}

// envelope wraps a payload with its kind so the receiver can pick the
// right type before touching the body bytes.
type envelope struct {
	Kind Kind   `codec:"kind"`
	Body []byte `codec:"body"`
}

// Encode serializes a message into its wire envelope.
func Encode(m Message) ([]byte, error) {
	var body []byte
	if err := codec.NewEncoderBytes(&body, handle).Encode(m); err != nil {
		return nil, fmt.Errorf("encoding %s body: %w", m.Kind(), err)
	}
	env := envelope{Kind: m.Kind(), Body: body}
	var out []byte
	if err := codec.NewEncoderBytes(&out, handle).Encode(env); err != nil {
		return nil, fmt.Errorf("encoding %s envelope: %w", m.Kind(), err)
	}
	return out, nil
}

// Decode parses a wire envelope back into its typed payload.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := codec.NewDecoderBytes(data, handle).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}

	var (
		m   Message
		err error
	)
	switch env.Kind {
	case KindPosition:
		m, err = decodeBody[Position](env.Body)
	case KindFire:
		m, err = decodeBody[Fire](env.Body)
	case KindHit:
		m, err = decodeBody[Hit](env.Body)
	case KindDeath:
		m, err = decodeBody[Death](env.Body)
	case KindSpawn:
		m, err = decodeBody[Spawn](env.Body)
	default:
		return nil, fmt.Errorf("unknown message kind %q", env.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s body: %w", env.Kind, err)
	}
	return m, nil
}

func decodeBody[T Message](body []byte) (Message, error) {
	var m T
	if err := codec.NewDecoderBytes(body, handle).Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}
