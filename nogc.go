package relptr

// Sub and Add round pointers through integers, which is only sound
// while the runtime never moves heap objects. Stack-resident aggregates
// are unaffected: a stack copy preserves intra-stack distances.
import _ "go4.org/unsafe/assume-no-moving-gc"
