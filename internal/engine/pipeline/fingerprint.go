package pipeline

import (
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/zerr"
)

type jobInputs struct {
	component  []byte
	parent     []byte
	provenance []byte
}

func readInputs(job domain.Job) (jobInputs, error) {
	var in jobInputs
	var err error

	if in.component, err = readFile(job.Component); err != nil {
		return in, err
	}
	if job.Parent != "" {
		if in.parent, err = readFile(job.Parent); err != nil {
			return in, err
		}
	}
	if job.Provenance != "" {
		if in.provenance, err = readFile(job.Provenance); err != nil {
			return in, err
		}
	}
	return in, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrFileReadFailed, err.Error()), "file", path)
	}
	return data, nil
}

// fingerprint hashes everything that determines a job's output: the output
// format and the bytes of every input document.
func fingerprint(job domain.Job, in jobInputs) string {
	h := xxhash.New()
	field := func(b []byte) {
		// Length prefixes keep adjacent fields from aliasing.
		_, _ = h.WriteString(strconv.Itoa(len(b)))
		_, _ = h.WriteString(":")
		_, _ = h.Write(b)
	}

	field([]byte(job.Format))
	field(in.component)
	field(in.parent)
	field(in.provenance)

	return strconv.FormatUint(h.Sum64(), 16)
}
