// Package index implements the local lexical retrieval layer: a TF-IDF
// index over repair documents with a cosine-similarity retriever.
//
// The index is built lazily on first retrieval and cached for the process
// lifetime. Source documents are treated as immutable once loaded; call
// Invalidate to force a rebuild on the next query.
package index

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/Basiic0110/Obdly/internal/textutil"
)

// defaultChunkTokens bounds chunk size so similarity scores stay meaningful
// for long documents.
const defaultChunkTokens = 220

// Document is a raw unit of source text handed to the index builder.
type Document struct {
	Text   string
	Source string            // filename or logical label
	Meta   map[string]string // structured context captured at load time
	// ChunkTokens overrides the window size for this document; 0 means the
	// default.
	ChunkTokens int
}

// DocChunk is the indexing unit: a bounded slice of a source document.
type DocChunk struct {
	Text   string
	Source string
	Meta   map[string]string
}

// Source supplies documents at build time. Implementations live in the
// corpus package; the index does not care where the text comes from.
type Source interface {
	Documents(ctx context.Context) ([]Document, error)
	Name() string
}

// Index holds the TF-IDF data derived from the chunk set.
type Index struct {
	mu      sync.Mutex
	built   bool
	sources []Source

	chunks []DocChunk
	vocab  map[string]int     // token -> column, first-seen order
	df     map[string]int     // token -> chunks containing it
	idf    map[string]float64 // smoothed inverse document frequency
	tf     []map[string]int   // per-chunk raw term counts
	norms  []float64          // per-chunk L2 vector norms
}

// New creates an unbuilt index over the given sources.
func New(sources ...Source) *Index {
	return &Index{sources: sources}
}

// EnsureBuilt builds the index if it has not been built yet. Sources that
// fail to load are logged and skipped; a partial or empty index is still
// marked built so retrieval degrades to empty results instead of failing.
func (ix *Index) EnsureBuilt(ctx context.Context) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.built {
		return
	}
	ix.build(ctx)
}

// Invalidate discards the built index. The next retrieval rebuilds it.
func (ix *Index) Invalidate() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.built = false
	ix.chunks = nil
	ix.vocab = nil
	ix.df = nil
	ix.idf = nil
	ix.tf = nil
	ix.norms = nil
}

// Len returns the number of indexed chunks, building the index if needed.
func (ix *Index) Len(ctx context.Context) int {
	ix.EnsureBuilt(ctx)
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.chunks)
}

func (ix *Index) build(ctx context.Context) {
	ix.chunks = nil
	ix.vocab = make(map[string]int)
	ix.df = make(map[string]int)
	ix.idf = make(map[string]float64)
	ix.tf = nil
	ix.norms = nil

	for _, src := range ix.sources {
		docs, err := src.Documents(ctx)
		if err != nil {
			log.Printf("index: skipping source %s: %v", src.Name(), err)
			continue
		}
		for _, doc := range docs {
			max := doc.ChunkTokens
			if max <= 0 {
				max = defaultChunkTokens
			}
			for _, piece := range splitWindows(doc.Text, max) {
				ix.chunks = append(ix.chunks, DocChunk{
					Text:   piece,
					Source: doc.Source,
					Meta:   doc.Meta,
				})
			}
		}
	}

	// An empty corpus still counts as built; retrieval returns nothing.
	if len(ix.chunks) == 0 {
		ix.built = true
		return
	}

	// Term frequencies and document frequencies. Vocabulary positions are
	// assigned in first-seen order so rebuilds from the same corpus are
	// reproducible.
	for _, chunk := range ix.chunks {
		tf := make(map[string]int)
		for _, tok := range textutil.Tokenize(chunk.Text) {
			if _, ok := ix.vocab[tok]; !ok {
				ix.vocab[tok] = len(ix.vocab)
			}
			tf[tok]++
		}
		ix.tf = append(ix.tf, tf)
		for tok := range tf {
			ix.df[tok]++
		}
	}

	// Smoothed IDF: ln((N+1)/(df+1)) + 1 keeps every weight strictly
	// positive, even for terms present in all chunks.
	n := len(ix.chunks)
	if n < 1 {
		n = 1
	}
	for tok, df := range ix.df {
		ix.idf[tok] = math.Log(float64(n+1)/float64(df+1)) + 1.0
	}

	// Per-chunk vector norms with log-dampened term frequency.
	for _, tf := range ix.tf {
		var sum float64
		for tok, cnt := range tf {
			w := weight(cnt, ix.idf[tok])
			sum += w * w
		}
		ix.norms = append(ix.norms, math.Sqrt(sum))
	}

	ix.built = true
}

// weight is the shared TF-IDF term weight: log-dampened frequency times the
// term's corpus rarity.
func weight(count int, idf float64) float64 {
	return (1.0 + math.Log(1.0+float64(count))) * idf
}

// splitWindows tokenizes text and slices it into windows of at most max
// tokens, joined by single spaces. Empty windows are dropped.
func splitWindows(text string, max int) []string {
	toks := textutil.Tokenize(text)
	if len(toks) == 0 {
		return nil
	}
	var out []string
	for i := 0; i < len(toks); i += max {
		end := i + max
		if end > len(toks) {
			end = len(toks)
		}
		if part := strings.Join(toks[i:end], " "); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Retrieve returns the top k chunks ranked by cosine similarity to query,
// best first. Chunks with zero similarity never appear in the results; ties
// keep original chunk order. k is clamped to at least 1. Retrieve never
// fails: an empty corpus or an out-of-vocabulary query yields an empty
// slice.
func (ix *Index) Retrieve(ctx context.Context, query string, k int) []DocChunk {
	ix.EnsureBuilt(ctx)
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if len(ix.chunks) == 0 {
		return nil
	}
	if k < 1 {
		k = 1
	}

	qvec, qnorm := ix.queryVector(query)
	if qnorm == 0 {
		return nil
	}

	type scored struct {
		sim float64
		i   int
	}
	var hits []scored
	for i, tf := range ix.tf {
		sim := ix.cosine(qvec, qnorm, tf, ix.norms[i])
		if sim > 0 {
			hits = append(hits, scored{sim, i})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].sim > hits[b].sim })

	if len(hits) > k {
		hits = hits[:k]
	}
	out := make([]DocChunk, len(hits))
	for i, h := range hits {
		out[i] = ix.chunks[h.i]
	}
	return out
}

// queryVector builds the query's weighted term vector using corpus IDF.
// Out-of-vocabulary terms are excluded entirely; they cannot match anything.
func (ix *Index) queryVector(query string) (map[string]float64, float64) {
	qtf := make(map[string]int)
	for _, tok := range textutil.Tokenize(query) {
		qtf[tok]++
	}
	vec := make(map[string]float64, len(qtf))
	var sum float64
	for tok, cnt := range qtf {
		idf, ok := ix.idf[tok]
		if !ok || idf <= 0 {
			continue
		}
		w := weight(cnt, idf)
		vec[tok] = w
		sum += w * w
	}
	return vec, math.Sqrt(sum)
}

// cosine computes the similarity between the query vector and one chunk,
// restricted to shared terms.
func (ix *Index) cosine(qvec map[string]float64, qnorm float64, tf map[string]int, dnorm float64) float64 {
	if qnorm == 0 || dnorm == 0 {
		return 0
	}
	var dot float64
	for tok, qw := range qvec {
		cnt, ok := tf[tok]
		if !ok {
			continue
		}
		dot += qw * weight(cnt, ix.idf[tok])
	}
	return dot / (qnorm * dnorm)
}
