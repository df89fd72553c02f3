package dm

import (
	"github.com/tonylturner/dmdiag/internal/dm/codec"
	"github.com/tonylturner/dmdiag/internal/dm/result"
)

// Result keys for the extended log mask.
const (
	KeyMaxItems = "max-items"
	KeyLogMask  = "mask"
)

// Extended log mask frame: code, len u16 @1 (highest log item), mask @3.
const (
	logMaskLenOffset  = 1
	logMaskDataOffset = 3
	MinLogItem        = 1
	MaxLogItem        = 4094
	MaxLogItems       = 4095
)

// logMaskBytes is ceil(maxLog/8).
func logMaskBytes(maxLog int) int {
	return (maxLog + 7) / 8
}

// ExtLogMaskRequest returns the raw extended log mask request enabling items.
// Every item must lie in [MinLogItem, MaxLogItem], not exceed maxLog, and
// fall inside the ceil(maxLog/8) mask bytes sent. When maxLog is a multiple
// of 8 the item equal to maxLog has no bit on the wire and is rejected. A
// request with no items and maxLog 0 asks the device for its current mask.
func ExtLogMaskRequest(items []uint16, maxLog uint16) ([]byte, error) {
	const cmd = "ext-log-mask"
	if maxLog > MaxLogItems {
		return nil, newError(KindInvalidArgument, cmd, "max log item %d exceeds %d", maxLog, MaxLogItems)
	}
	maskLen := logMaskBytes(int(maxLog))
	buf := make([]byte, logMaskDataOffset+maskLen)
	buf[0] = byte(OpExtLogMask)
	codec.PutUint16(buf, logMaskLenOffset, maxLog)

	for _, item := range items {
		if item < MinLogItem || item > MaxLogItem {
			return nil, newError(KindInvalidArgument, cmd, "log item %d outside %d-%d", item, MinLogItem, MaxLogItem)
		}
		if item > maxLog {
			return nil, newError(KindInvalidArgument, cmd, "log item %d exceeds max %d", item, maxLog)
		}
		if int(item/8) >= maskLen {
			return nil, newError(KindInvalidArgument, cmd, "log item %d does not fit a %d-byte mask (max %d)", item, maskLen, maxLog)
		}
		buf[logMaskDataOffset+int(item/8)] |= 1 << (item % 8)
	}
	return buf, nil
}

// BuildExtLogMask frames an extended log mask request into dst.
func BuildExtLogMask(dst []byte, items []uint16, maxLog uint16) (int, error) {
	raw, err := ExtLogMaskRequest(items, maxLog)
	if err != nil {
		return 0, err
	}
	return encode(dst, raw, "ext-log-mask")
}

// ParseExtLogMask accepts both response shapes. A single byte acknowledges a
// mask write and yields an empty result; anything longer is a mask dump whose
// length field gives the highest log item.
func ParseExtLogMask(buf []byte) (*result.Result, error) {
	const cmd = "ext-log-mask"
	if len(buf) == 1 {
		if err := checkResponse(buf, OpExtLogMask, 1, cmd); err != nil {
			return nil, err
		}
		return result.New(), nil
	}

	if err := checkResponse(buf, OpExtLogMask, logMaskDataOffset, cmd); err != nil {
		return nil, err
	}
	maxLog := int(codec.Uint16(buf, logMaskLenOffset))
	need := logMaskDataOffset + logMaskBytes(maxLog)
	if len(buf) < need {
		return nil, newError(KindBadLength, cmd, "mask for %d items needs %d bytes, got %d", maxLog, need, len(buf))
	}

	res := result.New()
	res.AddU32(KeyMaxItems, uint32(maxLog))
	res.AddBytes(KeyLogMask, buf[logMaskDataOffset:need])
	return res, nil
}

// ExtLogMaskHasItem reports whether item is enabled in a parsed mask dump.
func ExtLogMaskHasItem(res *result.Result, item uint16) bool {
	maxLog, ok := res.U32(KeyMaxItems)
	if !ok || uint32(item) > maxLog {
		return false
	}
	mask, ok := res.Bytes(KeyLogMask)
	if !ok || int(item/8) >= len(mask) {
		return false
	}
	return mask[item/8]&(1<<(item%8)) != 0
}

// ExtLogMaskItems lists every enabled item in a parsed mask dump.
func ExtLogMaskItems(res *result.Result) []uint16 {
	mask, ok := res.Bytes(KeyLogMask)
	if !ok {
		return nil
	}
	var items []uint16
	for i, b := range mask {
		for bit := 0; bit < 8; bit++ {
			if b&(1<<bit) != 0 {
				items = append(items, uint16(i*8+bit))
			}
		}
	}
	return items
}
