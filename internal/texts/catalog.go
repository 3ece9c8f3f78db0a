package texts

import (
	"math/rand"
	"sync"
)

// sampleParagraphs is the built-in race corpus. Every paragraph is a
// single line of plain ASCII prose so clients can index characters
// without worrying about grapheme clusters.
var sampleParagraphs = []string{
	"The quick brown fox jumps over the lazy dog while the sun sets behind the mountains. Birds chirp melodiously as evening approaches, creating a peaceful atmosphere that calms the mind and soothes the soul.",
	"Technology has revolutionized the way we communicate and interact with each other. From smartphones to social media platforms, digital innovation continues to shape our daily lives in unprecedented ways.",
	"Reading books expands our knowledge and imagination while improving our vocabulary and critical thinking skills. Literature transports us to different worlds and helps us understand diverse perspectives and cultures.",
	"Cooking is both an art and a science that brings people together around shared meals. The combination of fresh ingredients, proper techniques, and creativity results in delicious dishes that nourish body and soul.",
	"Exercise and physical activity are essential for maintaining good health and mental wellbeing. Regular movement strengthens muscles, improves cardiovascular function, and releases endorphins that boost mood and energy levels.",
	"Music has the power to evoke emotions and memories that words alone cannot express. A familiar melody can transport us back to a specific moment in time, reminding us of people and places we once knew.",
	"The ocean covers more than seventy percent of our planet and remains largely unexplored. Beneath its surface lies a world of strange creatures, towering mountain ranges, and trenches deeper than any canyon on land.",
	"Gardening teaches patience and rewards consistent effort over time. Seeds planted in spring become summer harvests, and the careful tending of soil and water produces results no shortcut can replicate.",
}

// Catalog is a read-only collection of candidate race paragraphs.
type Catalog struct {
	mu         sync.Mutex
	paragraphs []string
	rng        *rand.Rand
}

// NewCatalog returns a catalog over the built-in corpus, seeded from seed.
func NewCatalog(seed int64) *Catalog {
	return &Catalog{
		paragraphs: sampleParagraphs,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Pick returns one paragraph chosen uniformly at random.
func (c *Catalog) Pick() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paragraphs[c.rng.Intn(len(c.paragraphs))]
}

// Size returns the number of paragraphs in the catalog.
func (c *Catalog) Size() int {
	return len(c.paragraphs)
}
