package skill

import (
	"io"
	"math"

	"github.com/jingkaihe/stepkit/pkg/argvalue"
	"github.com/pkg/errors"
)

// ErrInputTooLarge is returned when stdin exceeds the configured limit
var ErrInputTooLarge = errors.New("input exceeds max_input_bytes")

// ReadArgs reads and decodes the payload. It always returns a usable mapping;
// the error only explains why the payload was replaced by an empty one.
func ReadArgs(r io.Reader, limit int64) (*argvalue.Mapping, error) {
	// One extra byte tells an exact fit from an oversized payload.
	readLimit := limit
	if readLimit < math.MaxInt64 {
		readLimit++
	}
	data, err := io.ReadAll(io.LimitReader(r, readLimit))
	if err != nil {
		return argvalue.NewMapping(), errors.Wrap(err, "failed to read stdin")
	}
	if int64(len(data)) > limit {
		return argvalue.NewMapping(), errors.Wrapf(ErrInputTooLarge, "limit is %d bytes", limit)
	}

	args, err := argvalue.ParseObject(data)
	if err != nil {
		return argvalue.NewMapping(), err
	}
	return args, nil
}
