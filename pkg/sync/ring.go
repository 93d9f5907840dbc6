package sync

import (
	"encoding/binary"
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/spaolacci/murmur3"
)

// ring is a consistent hash ring over stripe indices
type ring struct {
	hashRing *treemap.Map

	// minStripe caches the stripe of the min entry in hashRing, since
	// treemap.Map.Min() is O(log n)
	minStripe int
}

// newRing returns a consistent hash ring with replicationFactor points for
// each of the stripes
func newRing(stripes, replicationFactor uint) *ring {
	hashRing := treemap.NewWith(utils.Int64Comparator)

	pointBytes := make([]byte, 12)
	for stripe := 0; stripe < int(stripes); stripe++ {
		stripeHash := murmur3.Sum64([]byte(fmt.Sprintf("stripe%d", stripe)))
		binary.LittleEndian.PutUint64(pointBytes, stripeHash)

		for i := 0; i < int(replicationFactor); i++ {
			binary.LittleEndian.PutUint32(pointBytes[8:], uint32(i))
			hashRing.Put(int64(murmur3.Sum64(pointBytes)), stripe)
		}
	}

	r := &ring{hashRing: hashRing}
	if _, minStripe := hashRing.Min(); minStripe != nil {
		r.minStripe = minStripe.(int)
	}
	return r
}

// shard consistently hashes the key to a stripe
func (r *ring) shard(key string) int {
	hash := int64(murmur3.Sum64([]byte(key)))
	if _, stripe := r.hashRing.Ceiling(hash); stripe != nil {
		return stripe.(int)
	}
	return r.minStripe
}
