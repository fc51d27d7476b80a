package timesvc

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/praxis-ledger/praxis/common"
)

// Config is the constructor argument of the time service: the set of
// validators whose reports participate in consolidation. The fault
// tolerance parameter is derived from the set size as f = (N-1)/3.
type Config struct {
	Validators []common.PublicKey
}

const configEncodingVersion byte = 0

// MaxFaulty returns the number of Byzantine validators the configured
// set tolerates.
func (c Config) MaxFaulty() int {
	if len(c.Validators) == 0 {
		return 0
	}
	return (len(c.Validators) - 1) / 3
}

func (c Config) ToBytes() []byte {
	keySize := common.PublicKeySerializer{}.Size()
	data := make([]byte, 0, 1+2+len(c.Validators)*keySize)
	data = append(data, configEncodingVersion)
	data = binary.BigEndian.AppendUint16(data, uint16(len(c.Validators)))
	for _, key := range c.Validators {
		data = append(data, key[:]...)
	}
	return data
}

func ConfigFromBytes(data []byte) (Config, error) {
	if len(data) < 3 {
		return Config{}, fmt.Errorf("invalid encoding, too few bytes")
	}
	if data[0] != configEncodingVersion {
		return Config{}, fmt.Errorf("unknown encoding version: %d", data[0])
	}
	count := int(binary.BigEndian.Uint16(data[1:]))
	data = data[3:]

	serializer := common.PublicKeySerializer{}
	if len(data) != count*serializer.Size() {
		return Config{}, fmt.Errorf("invalid encoding, truncated validator list")
	}
	cfg := Config{Validators: make([]common.PublicKey, count)}
	for i := 0; i < count; i++ {
		cfg.Validators[i] = serializer.FromBytes(data[:serializer.Size()])
		data = data[serializer.Size():]
	}
	return cfg, nil
}

// TxReport is the payload of the report method: the wall-clock reading
// of one validator.
type TxReport struct {
	Time   time.Time
	Author common.PublicKey
}

func (t TxReport) ToBytes() []byte {
	data := common.Int64Serializer{}.ToBytes(t.Time.UnixNano())
	return append(data, t.Author[:]...)
}

func TxReportFromBytes(data []byte) (TxReport, error) {
	timeSize := common.Int64Serializer{}.Size()
	keySize := common.PublicKeySerializer{}.Size()
	if len(data) != timeSize+keySize {
		return TxReport{}, fmt.Errorf("invalid encoding, expected %d bytes, got %d", timeSize+keySize, len(data))
	}
	return TxReport{
		Time:   time.Unix(0, common.Int64Serializer{}.FromBytes(data)).UTC(),
		Author: common.PublicKeySerializer{}.FromBytes(data[timeSize:]),
	}, nil
}
