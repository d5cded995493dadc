package cache

import "fmt"

// Keyer builds cache keys.
type Keyer interface {
	// QuestionKey identifies a question loaded from a source.
	QuestionKey(source, id string) string
	// ArtifactKey identifies one rendered target of a question.
	ArtifactKey(questionHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render settings that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Target  string  `json:"target"`
	Format  string  `json:"format"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Scale   float64 `json:"scale,omitempty"`
	RSVG    bool    `json:"rsvg,omitempty"`
	Animate bool    `json:"animate,omitempty"`
}

// DefaultKeyer builds unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// QuestionKey returns "question:{source}:{id}".
func (DefaultKeyer) QuestionKey(source, id string) string {
	return fmt.Sprintf("question:%s:%s", source, id)
}

// ArtifactKey returns "artifact:" followed by a hash of the question hash
// and every option.
func (DefaultKeyer) ArtifactKey(questionHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", questionHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer. The CLI scopes keys by
// release version:
//
//	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
type ScopedKeyer struct {
	Keyer
	Prefix string
}

// NewScopedKeyer prefixes inner's keys. A nil inner means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Keyer: inner, Prefix: prefix}
}

func (k ScopedKeyer) QuestionKey(source, id string) string {
	return k.Prefix + k.Keyer.QuestionKey(source, id)
}

func (k ScopedKeyer) ArtifactKey(questionHash string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Keyer.ArtifactKey(questionHash, opts)
}
