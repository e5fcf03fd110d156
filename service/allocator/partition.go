package allocator

import (
	"fmt"
	"math"
	"math/big"

	"github.com/viant/btuid/model"
)

// MaxPasses is the number of full cursor wrap-arounds spent at a depth before
// moving one level deeper.
const MaxPasses = 1

// MaxFanout bounds the fanout; a depth 1 chunk needs 2^64/(2*fanout) to exceed
// 2*fanout-1, which no larger fanout satisfies.
const MaxFanout = math.MaxInt32

// SpaceWidth returns 2^64, the size of the 16 hex digit address space.
func SpaceWidth() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), 64)
}

// StartOffset returns startValue plus the displacementRate parts per thousand
// of the address space reserved at its low end.
func StartOffset(startValue *big.Int, displacementRate int) (*big.Int, error) {
	if displacementRate < 0 || displacementRate > 1000 {
		return nil, fmt.Errorf("displacement rate %d out of range [0, 1000]", displacementRate)
	}
	ret := new(big.Int)
	if startValue != nil {
		if startValue.Sign() < 0 {
			return nil, fmt.Errorf("start value %s must not be negative", startValue)
		}
		ret.Set(startValue)
	}
	reserved := new(big.Int).Mul(SpaceWidth(), big.NewInt(int64(displacementRate)))
	reserved.Quo(reserved, big.NewInt(1000))
	return ret.Add(ret, reserved), nil
}

// MaxDepth returns the deepest level at which the chunk length still exceeds
// the accumulated prior-depth offsets, which keeps values of different depths
// apart. Zero means the space above startOffset cannot hold a single depth.
func MaxDepth(fanout int, startOffset *big.Int) int {
	if fanout < 1 || fanout > MaxFanout {
		return 0
	}
	radix := big.NewInt(int64(2 * fanout))
	step := big.NewInt(int64(2*fanout - 1))
	power := big.NewInt(1)
	maxDepth := 0
	for depth := 1; ; depth++ {
		power.Mul(power, radix)
		reserve := new(big.Int).Mul(step, big.NewInt(int64(depth)))
		usable := usableWidth(startOffset, reserve)
		if usable.Sign() <= 0 {
			return maxDepth
		}
		if base := usable.Quo(usable, power); base.Cmp(reserve) <= 0 {
			return maxDepth
		}
		maxDepth = depth
	}
}

// ChunkLength returns the width of one chunk at depth. Lengths of consecutive
// depths differ by exactly a factor of 2*fanout; beyond MaxDepth it is zero.
func ChunkLength(fanout int, startOffset *big.Int, depth int) *big.Int {
	maxDepth := MaxDepth(fanout, startOffset)
	if depth < 1 || depth > maxDepth {
		return new(big.Int)
	}
	radix := big.NewInt(int64(2 * fanout))
	reserve := new(big.Int).Mul(big.NewInt(int64(2*fanout-1)), big.NewInt(int64(maxDepth)))
	base := usableWidth(startOffset, reserve)
	base.Quo(base, new(big.Int).Exp(radix, big.NewInt(int64(maxDepth)), nil))
	scale := new(big.Int).Exp(radix, big.NewInt(int64(maxDepth-depth)), nil)
	return base.Mul(base, scale)
}

// ChunkCount returns the number of cursor positions at depth.
func ChunkCount(fanout int, depth int) *big.Int {
	return new(big.Int).Exp(big.NewInt(int64(2*fanout)), big.NewInt(int64(depth)), nil)
}

// NewState returns the initial state for the given fanout and start offset.
func NewState(fanout int, startOffset *big.Int) *model.State {
	return model.NewState(fanout, startOffset, ChunkLength(fanout, startOffset, 1))
}

// Next returns the value at the current cursor and advances state. The state
// is left untouched when an error is returned.
func Next(state *model.State) (*big.Int, error) {
	if state.ChunkLength.Sign() == 0 {
		return nil, fmt.Errorf("%w: depth %d", ErrAddressSpaceExhausted, state.Depth)
	}
	used := new(big.Int).Mul(big.NewInt(int64(2*state.Fanout-1)), big.NewInt(int64(state.Depth-1)))
	value := new(big.Int).Add(state.Cursor, big.NewInt(1))
	value.Mul(value, state.ChunkLength)
	value.Add(value, used)
	value.Add(value, state.StartOffset)
	if value.Cmp(SpaceWidth()) >= 0 {
		return nil, fmt.Errorf("%w: value %s at depth %d", ErrAddressSpaceExhausted, value, state.Depth)
	}

	state.Cursor.Add(state.Cursor, big.NewInt(1))
	if state.Cursor.Cmp(ChunkCount(state.Fanout, state.Depth)) >= 0 {
		state.Cursor.SetInt64(0)
		state.PassCount.Add(state.PassCount, big.NewInt(1))
		if state.PassCount.Cmp(big.NewInt(MaxPasses)) >= 0 {
			state.PassCount.SetInt64(0)
			state.Depth++
			state.ChunkLength = ChunkLength(state.Fanout, state.StartOffset, state.Depth)
		}
	}
	return value, nil
}

func usableWidth(startOffset, reserve *big.Int) *big.Int {
	ret := SpaceWidth()
	ret.Sub(ret, startOffset)
	return ret.Sub(ret, reserve)
}
