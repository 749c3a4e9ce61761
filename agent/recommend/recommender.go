// Package recommend ranks restaurants against a free-text preference
// profile using term-frequency/inverse-document-frequency weights and
// cosine similarity.
package recommend

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	contractx "github.com/tableside/concierge/agent/contract"
)

const DefaultLimit = 5

// Recommender holds the cached restaurant vectors. The index is
// rebuilt lazily when empty or stale against the store snapshot; it is
// never incrementally maintained.
type Recommender struct {
	store contractx.Store

	mu      sync.Mutex
	ids     []int
	vectors []map[string]float64
	idf     map[string]float64
}

var _ contractx.Recommender = (*Recommender)(nil)

func New(store contractx.Store) *Recommender {
	return &Recommender{store: store}
}

// Rebuild refits the TF-IDF model over one consistent snapshot of the
// restaurant list.
func (r *Recommender) Rebuild(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rebuildLocked(ctx)
}

func (r *Recommender) rebuildLocked(ctx context.Context) error {
	restaurants, err := r.store.ListRestaurants(ctx, contractx.RestaurantFilter{})
	if err != nil {
		return err
	}

	ids := make([]int, 0, len(restaurants))
	docs := make([][]string, 0, len(restaurants))
	for _, rest := range restaurants {
		ids = append(ids, rest.ID)
		docs = append(docs, tokenize(restaurantDocument(rest)))
	}

	// Smoothed idf over the corpus, one weight per term.
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}
	n := len(docs)
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log(float64(1+n)/float64(1+count)) + 1
	}

	vectors := make([]map[string]float64, 0, len(docs))
	for _, doc := range docs {
		vectors = append(vectors, weigh(doc, idf))
	}

	r.ids = ids
	r.vectors = vectors
	r.idf = idf

	log.Debug().Int("restaurants", n).Int("vocabulary", len(idf)).Msg("similarity index rebuilt")
	return nil
}

func (r *Recommender) Recommend(ctx context.Context, q contractx.RecommendQuery) ([]contractx.Restaurant, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureFreshLocked(ctx); err != nil {
		return nil, err
	}
	if len(r.ids) == 0 {
		return nil, nil
	}

	profile := r.resolveProfile(ctx, q)
	if profileEmpty(profile) {
		return r.topRated(ctx, limit)
	}

	query := weigh(tokenize(profileDocument(profile)), r.idf)
	return r.rank(ctx, query, limit, -1)
}

// SimilarRestaurants ranks against the target's own vector, excluding
// the target. An unknown id yields an empty result, not an error.
func (r *Recommender) SimilarRestaurants(ctx context.Context, restaurantID, limit int) ([]contractx.Restaurant, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureFreshLocked(ctx); err != nil {
		return nil, err
	}

	target := -1
	for i, id := range r.ids {
		if id == restaurantID {
			target = i
			break
		}
	}
	if target < 0 {
		return nil, nil
	}
	return r.rank(ctx, r.vectors[target], limit, target)
}

// profile is the recommender's working preference bag, already
// flattened to query text fields.
type profile struct {
	cuisine    string
	location   string
	priceRange string
	occasion   string
	dietary    string
}

func (r *Recommender) resolveProfile(ctx context.Context, q contractx.RecommendQuery) profile {
	var p profile
	if q.UserID > 0 {
		if user, err := r.store.GetUser(ctx, q.UserID); err == nil && user.Preferences != nil {
			p.cuisine = strings.Join(user.Preferences.Cuisine, " ")
			p.location = user.Preferences.Location
			p.priceRange = user.Preferences.PriceRange
			p.occasion = user.Preferences.Occasion
			p.dietary = strings.Join(user.Preferences.DietaryRestrictions, " ")
		}
	}

	// Explicit fields override the stored profile, field by field.
	if q.Cuisine != "" {
		p.cuisine = q.Cuisine
	}
	if q.Location != "" {
		p.location = q.Location
	}
	if q.PriceRange != "" {
		p.priceRange = q.PriceRange
	}
	if q.Occasion != "" {
		p.occasion = q.Occasion
	}
	return p
}

func profileEmpty(p profile) bool {
	return p.cuisine == "" && p.location == "" && p.priceRange == "" && p.occasion == "" && p.dietary == ""
}

func (r *Recommender) topRated(ctx context.Context, limit int) ([]contractx.Restaurant, error) {
	restaurants, err := r.store.ListRestaurants(ctx, contractx.RestaurantFilter{})
	if err != nil {
		return nil, err
	}
	// Stable sort keeps storage order on rating ties.
	sort.SliceStable(restaurants, func(i, j int) bool {
		return restaurants[i].Rating > restaurants[j].Rating
	})
	if len(restaurants) > limit {
		restaurants = restaurants[:limit]
	}
	return restaurants, nil
}

func (r *Recommender) rank(ctx context.Context, query map[string]float64, limit, exclude int) ([]contractx.Restaurant, error) {
	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, 0, len(r.vectors))
	for i, vec := range r.vectors {
		if i == exclude {
			continue
		}
		ranked = append(ranked, scored{index: i, score: cosine(query, vec)})
	}

	// Ties break toward the lower vector index; the slice is already
	// in index order, so a stable sort on score preserves that.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]contractx.Restaurant, 0, len(ranked))
	for _, s := range ranked {
		rest, err := r.store.GetRestaurant(ctx, r.ids[s.index])
		if err != nil {
			// Removed since the index snapshot; skip.
			continue
		}
		out = append(out, *rest)
	}
	return out, nil
}

// ensureFreshLocked rebuilds when the cached index is empty or the
// stored restaurant set no longer matches the cached ids.
func (r *Recommender) ensureFreshLocked(ctx context.Context) error {
	if len(r.ids) == 0 {
		return r.rebuildLocked(ctx)
	}

	restaurants, err := r.store.ListRestaurants(ctx, contractx.RestaurantFilter{})
	if err != nil {
		return err
	}
	if len(restaurants) != len(r.ids) {
		return r.rebuildLocked(ctx)
	}
	for i, rest := range restaurants {
		if rest.ID != r.ids[i] {
			return r.rebuildLocked(ctx)
		}
	}
	return nil
}

// restaurantDocument concatenates the text features of one restaurant:
// name, cuisine, location, price tier, feature flags, menu item names.
func restaurantDocument(r contractx.Restaurant) string {
	parts := []string{r.Name, r.Cuisine, r.Location, r.PriceRange}

	features := make([]string, 0, len(r.Features))
	for name := range r.Features {
		features = append(features, name)
	}
	sort.Strings(features)
	parts = append(parts, strings.Join(features, " "))

	categories := make([]string, 0, len(r.Menu))
	for category := range r.Menu {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		for _, item := range r.Menu[category] {
			parts = append(parts, item.Name)
		}
	}
	return strings.Join(parts, " ")
}

func profileDocument(p profile) string {
	return strings.Join([]string{p.cuisine, p.location, p.priceRange, p.dietary, p.occasion}, " ")
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// weigh builds an l2-normalized tf-idf vector. Terms outside the
// fitted vocabulary carry no weight, matching vectorizer transform
// semantics.
func weigh(terms []string, idf map[string]float64) map[string]float64 {
	tf := make(map[string]float64, len(terms))
	for _, term := range terms {
		if _, known := idf[term]; !known {
			continue
		}
		tf[term]++
	}

	var norm float64
	for term := range tf {
		tf[term] *= idf[term]
		norm += tf[term] * tf[term]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for term := range tf {
			tf[term] /= norm
		}
	}
	return tf
}

func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	// Vectors are unit length, so the dot product is the cosine.
	return dot
}
