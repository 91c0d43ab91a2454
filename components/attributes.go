package components

// AttrKey enumerates the species-specific transient attributes an entity may
// carry. A closed enum keeps lookups typed; adding a key is a code change,
// not a runtime string.
type AttrKey uint8

const (
	AttrStoredMinerals AttrKey = iota // crystal plants, rocks
	AttrStoredEnergy                  // crystal plant shared reserve
	AttrDigestTimer                   // carnivorous plant digestion ticks
	AttrSporeCharge                   // spore plant spread accumulator
	AttrHeatOutput                    // fire plant local temperature bonus
	AttrBurrowDepth                   // burrower shelter state, 0 = surface
	AttrPollination                   // flier pollination charge

	numAttrKeys
)

// Attributes is a small typed attribute map for species-specific transient
// state. The zero value is ready to use.
type Attributes struct {
	set    [numAttrKeys]bool
	values [numAttrKeys]float64
}

// Get returns the stored value or def when the key was never set.
func (a *Attributes) Get(key AttrKey, def float64) float64 {
	if key >= numAttrKeys || !a.set[key] {
		return def
	}
	return a.values[key]
}

// Set stores a value for the key.
func (a *Attributes) Set(key AttrKey, value float64) {
	if key >= numAttrKeys {
		return
	}
	a.set[key] = true
	a.values[key] = value
}

// Add increments the stored value, treating unset as zero.
func (a *Attributes) Add(key AttrKey, delta float64) float64 {
	v := a.Get(key, 0) + delta
	a.Set(key, v)
	return v
}

// Each calls fn for every set attribute, in key order.
func (a *Attributes) Each(fn func(key AttrKey, value float64)) {
	for k := AttrKey(0); k < numAttrKeys; k++ {
		if a.set[k] {
			fn(k, a.values[k])
		}
	}
}
