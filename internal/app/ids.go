package app

import (
	"crypto/rand"
	"math/big"

	"github.com/dkeye/Pot/internal/domain"
)

const (
	DefaultIDLength = 8
	idAlphabet      = "0123456789abcdefghijklmnopqrstuvwxyz"
)

type IDGenerator interface {
	NewID() (domain.GameID, error)
}

// RandomIDs draws base-36 ids from crypto/rand. Eight characters give about
// 41 bits; uniqueness is still enforced by the registry.
type RandomIDs struct {
	length int
}

func NewRandomIDs(length int) *RandomIDs {
	if length <= 0 {
		length = DefaultIDLength
	}
	return &RandomIDs{length: length}
}

func (g *RandomIDs) NewID() (domain.GameID, error) {
	base := big.NewInt(int64(len(idAlphabet)))
	buf := make([]byte, g.length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", err
		}
		buf[i] = idAlphabet[n.Int64()]
	}
	return domain.GameID(buf), nil
}
