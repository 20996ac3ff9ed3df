// Package linking resolves entity mentions across documents. Two passes
// run over the extracted entities: a string pass with lexical rules and an
// embedding pass with cosine similarity, and their clusters are merged.
package linking

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"scireasoner/internal/util"
	"scireasoner/pkg/ai"
	"scireasoner/pkg/common"
	"scireasoner/pkg/logger"
)

const defaultSimilarityThreshold = 0.75

// EntityLinker groups entity mentions referring to the same real-world
// entity. Mentions of different entity types are never linked.
type EntityLinker struct {
	client     ai.Client
	threshold  float64
	embedCache map[string][]float32
}

// NewEntityLinker returns a linker. A non-positive threshold selects the
// default cosine similarity threshold.
func NewEntityLinker(client ai.Client, threshold float64) *EntityLinker {
	if threshold <= 0 {
		threshold = defaultSimilarityThreshold
	}
	return &EntityLinker{
		client:     client,
		threshold:  threshold,
		embedCache: make(map[string][]float32),
	}
}

// cluster is one group of co-referring mentions. The canonical name is
// the raw text of the entity that seeded the cluster.
type cluster struct {
	canonical string
	ids       []string
}

// LinkEntities partitions the entities into clusters of co-referring
// mentions and returns canonical name to member entity ids. Every input
// entity appears in exactly one cluster, singletons included. If the
// embedding pass fails the string clusters are returned alone.
func (l *EntityLinker) LinkEntities(ctx context.Context, entities []common.Entity) (map[string][]string, error) {
	if len(entities) == 0 {
		return map[string][]string{}, nil
	}

	stringClusters := stringPass(entities)

	embedClusters, err := l.embeddingPass(ctx, entities)
	if err != nil {
		logger.Warn("embedding pass failed, keeping string clusters", "error", err)
		embedClusters = nil
	}

	links := make(map[string][]string)
	for _, c := range mergeClusters(stringClusters, embedClusters) {
		// Distinct clusters can share a canonical text, for example the
		// same name used as a dataset and as a model. Suffix later keys
		// so no cluster is lost.
		key := c.canonical
		for n := 2; ; n++ {
			if _, taken := links[key]; !taken {
				break
			}
			key = fmt.Sprintf("%s#%d", c.canonical, n)
		}
		links[key] = c.ids
	}
	return links, nil
}

// stringPass greedily clusters same-type entities left to right. An
// unclaimed entity seeds a cluster and claims every later unclaimed
// entity whose text matches the seed's under the lexical rules.
func stringPass(entities []common.Entity) []cluster {
	claimed := make([]bool, len(entities))
	out := make([]cluster, 0, len(entities))
	for i := range entities {
		if claimed[i] {
			continue
		}
		claimed[i] = true
		c := cluster{canonical: entities[i].Text, ids: []string{entities[i].EntityID}}
		for j := i + 1; j < len(entities); j++ {
			if claimed[j] || entities[i].EntityType != entities[j].EntityType {
				continue
			}
			if stringMatch(entities[i].Text, entities[j].Text) {
				claimed[j] = true
				c.ids = append(c.ids, entities[j].EntityID)
			}
		}
		out = append(out, c)
	}
	return out
}

// embeddingPass runs the same greedy clustering with cosine similarity of
// the cached vectors against the threshold instead of the lexical rules.
func (l *EntityLinker) embeddingPass(ctx context.Context, entities []common.Entity) ([]cluster, error) {
	inputs := make([][]byte, 0, len(entities))
	missing := make([]int, 0, len(entities))
	for i := range entities {
		if _, ok := l.embedCache[entities[i].EntityID]; !ok {
			inputs = append(inputs, []byte(entities[i].Text))
			missing = append(missing, i)
		}
	}
	if len(missing) > 0 {
		embeddings, err := l.client.GenerateEmbeddings(ctx, inputs)
		if err != nil {
			return nil, err
		}
		for k, i := range missing {
			l.embedCache[entities[i].EntityID] = embeddings[k]
		}
	}

	claimed := make([]bool, len(entities))
	out := make([]cluster, 0, len(entities))
	for i := range entities {
		if claimed[i] {
			continue
		}
		claimed[i] = true
		c := cluster{canonical: entities[i].Text, ids: []string{entities[i].EntityID}}
		seed := l.embedCache[entities[i].EntityID]
		for j := i + 1; j < len(entities); j++ {
			if claimed[j] || entities[i].EntityType != entities[j].EntityType {
				continue
			}
			if cosineSimilarity(seed, l.embedCache[entities[j].EntityID]) >= l.threshold {
				claimed[j] = true
				c.ids = append(c.ids, entities[j].EntityID)
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// mergeClusters unions the two clusterings. An embedding cluster that
// overlaps existing merged clusters folds into the earliest of them and
// pulls the other overlapping clusters along, so every entity id stays in
// exactly one cluster. The earliest cluster keeps its canonical name.
func mergeClusters(stringClusters []cluster, embedClusters []cluster) []cluster {
	merged := make([]cluster, 0, len(stringClusters))
	index := make(map[string]int)
	for _, c := range stringClusters {
		pos := len(merged)
		merged = append(merged, cluster{canonical: c.canonical, ids: append([]string(nil), c.ids...)})
		for _, id := range c.ids {
			index[id] = pos
		}
	}

	for _, c := range embedClusters {
		overlaps := make([]int, 0, 2)
		seen := make(map[int]bool)
		for _, id := range c.ids {
			if pos, ok := index[id]; ok && !seen[pos] {
				seen[pos] = true
				overlaps = append(overlaps, pos)
			}
		}
		if len(overlaps) == 0 {
			pos := len(merged)
			merged = append(merged, cluster{canonical: c.canonical, ids: append([]string(nil), c.ids...)})
			for _, id := range c.ids {
				index[id] = pos
			}
			continue
		}
		sort.Ints(overlaps)
		target := overlaps[0]
		for _, pos := range overlaps[1:] {
			for _, id := range merged[pos].ids {
				index[id] = target
			}
			merged[target].ids = append(merged[target].ids, merged[pos].ids...)
			merged[pos].ids = nil
		}
		for _, id := range c.ids {
			if _, ok := index[id]; !ok {
				merged[target].ids = append(merged[target].ids, id)
				index[id] = target
			}
		}
	}

	out := make([]cluster, 0, len(merged))
	for _, c := range merged {
		if len(c.ids) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// stringMatch applies the lexical linking rules: exact normalized match,
// substring containment either direction, short-form abbreviation, and
// token overlap above 0.6.
func stringMatch(a string, b string) bool {
	na, nb := util.NormalizeText(a), util.NormalizeText(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}
	if isAbbreviation(na, nb) || isAbbreviation(nb, na) {
		return true
	}
	return tokenOverlap(na, nb) > 0.6
}

// isAbbreviation reports whether short looks like an abbreviation occurring
// inside long.
func isAbbreviation(short string, long string) bool {
	return len(short) <= 5 && len(long) > 10 && strings.Contains(long, short)
}

// tokenOverlap is the shared token count over the larger token set.
func tokenOverlap(a string, b string) float64 {
	setA, setB := util.TokenSet(a), util.TokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	shared := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			shared++
		}
	}
	larger := len(setA)
	if len(setB) > larger {
		larger = len(setB)
	}
	return float64(shared) / float64(larger)
}

func cosineSimilarity(a []float32, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

