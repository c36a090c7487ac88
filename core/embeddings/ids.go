package embeddings

import "github.com/dolittle/go-sdk/core/artifacts"

type EmbeddingID [16]byte

func (id EmbeddingID) String() string               { return artifacts.IDString(id) }
func (id EmbeddingID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *EmbeddingID) UnmarshalText(text []byte) error {
	parsed, err := artifacts.ParseID[EmbeddingID](string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func ParseEmbeddingID(s string) (EmbeddingID, error) { return artifacts.ParseID[EmbeddingID](s) }
func MustEmbeddingID(s string) EmbeddingID           { return artifacts.MustParseID[EmbeddingID](s) }

// Key identifies one read model instance of an embedding.
type Key string

func (k Key) String() string { return string(k) }
