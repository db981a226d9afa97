package datasetadapter

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"nomengine/domain/core"
	"nomengine/domain/dataset"
	"nomengine/ports"
)

// Synthetic generates deterministic entity populations for development runs
// and tests. Names are assembled from a fixed syllable pool and outcomes carry
// a planted linear effect of the name's vowel density plus Gaussian noise, so
// optimization over any scheme with a vowel-sensitive property has a real
// signal to find.
type Synthetic struct {
	domains map[core.DomainKey]DomainSpec
	// populationSize is the universe each domain draws its sample from
	populationSize int
	effectSize     float64
	noiseScale     float64
}

var _ ports.DatasetPort = (*Synthetic)(nil)

var syllables = []string{
	"ka", "ren", "mo", "li", "zan", "tor", "bel", "shi", "dra", "vue",
	"nor", "pel", "qui", "sam", "tia", "ul", "vex", "wyn", "yor", "zel",
	"ash", "bri", "cor", "dun", "eve", "fen", "gal", "hul", "ix", "jen",
}

// NewSynthetic builds a generator over the given domains. A nil or empty map
// gets a single continuous demo domain.
func NewSynthetic(domains map[core.DomainKey]DomainSpec) *Synthetic {
	if len(domains) == 0 {
		domains = map[core.DomainKey]DomainSpec{
			"demo": {Outcome: dataset.OutcomeContinuous},
		}
	}
	return &Synthetic{
		domains:        domains,
		populationSize: 2000,
		effectSize:     3.0,
		noiseScale:     0.5,
	}
}

// Load generates the domain's full population deterministically from the
// domain key, then draws the seeded sample from it. The population does not
// depend on the seed, so different seeds sample the same universe.
func (s *Synthetic) Load(ctx context.Context, domain core.DomainKey, sampleSize int, seed int64) ([]dataset.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spec, ok := s.domains[domain]
	if !ok {
		return nil, core.NewDataUnavailableError(domain, fmt.Errorf("unknown synthetic domain"))
	}

	stream := rand.New(rand.NewSource(core.SeedHash(0, "synthetic", string(domain))))
	entities := make([]dataset.Entity, s.populationSize)
	for i := range entities {
		name := s.generateName(stream)
		entities[i] = dataset.Entity{
			ID:      core.EntityID(fmt.Sprintf("%s-%04d", domain, i)),
			Domain:  domain,
			RawName: name,
			Outcome: s.outcomeFor(name, spec.outcomeKind(), stream),
		}
	}

	return sampleWithoutReplacement(entities, sampleSize, seed), nil
}

// OutcomeKind reports the configured kind, continuous for unknown domains
func (s *Synthetic) OutcomeKind(domain core.DomainKey) dataset.OutcomeKind {
	return s.domains[domain].outcomeKind()
}

// MinSampleSize reports the configured minimum, the default for unknown domains
func (s *Synthetic) MinSampleSize(domain core.DomainKey) int {
	return s.domains[domain].minSample()
}

func (s *Synthetic) generateName(stream *rand.Rand) string {
	var b strings.Builder
	parts := 2 + stream.Intn(3)
	for i := 0; i < parts; i++ {
		b.WriteString(syllables[stream.Intn(len(syllables))])
	}
	name := b.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// outcomeFor plants effectSize * vowelRatio into the outcome. Binary domains
// threshold the latent value at its expected midpoint.
func (s *Synthetic) outcomeFor(name string, kind dataset.OutcomeKind, stream *rand.Rand) float64 {
	vowels, letters := 0, 0
	for _, r := range strings.ToLower(name) {
		if r < 'a' || r > 'z' {
			continue
		}
		letters++
		switch r {
		case 'a', 'e', 'i', 'o', 'u':
			vowels++
		}
	}
	ratio := 0.0
	if letters > 0 {
		ratio = float64(vowels) / float64(letters)
	}
	latent := s.effectSize*ratio + stream.NormFloat64()*s.noiseScale
	if kind == dataset.OutcomeBinary {
		if latent > s.effectSize*0.4 {
			return 1.0
		}
		return 0.0
	}
	return latent
}
