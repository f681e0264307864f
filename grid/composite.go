package grid

import (
	"fmt"
	"image"
	"strings"
)

type Rule int

const (
	// 遮罩为255处所有波段烧录为255，其余保持原值
	OverlayWins Rule = iota
	// 输出初始为0；遮罩不为255处先写入原值，随即覆盖为遮罩值
	ReplaceByMask
)

var ruleNames = [...]string{
	OverlayWins:   "overlay-wins",
	ReplaceByMask: "replace-by-mask",
}

func (r Rule) String() string {
	if r >= 0 && int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

func ParseRule(s string) (r Rule, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range ruleNames {
		if s == name {
			r = Rule(i)
			return
		}
	}
	err = fmt.Errorf("unknown composite rule %q", s)
	return
}

func (r Rule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rule) UnmarshalText(b []byte) (err error) {
	*r, err = ParseRule(string(b))
	return
}

// Composite 按规则合成裁剪后的栅格与同尺寸遮罩
func Composite(clipped *Grid, mask *image.Gray, rule Rule) (out *Grid, err error) {
	if err = CheckShape(clipped, mask); err != nil {
		return
	}
	switch rule {
	case OverlayWins:
		out = overlayWins(clipped, mask)
	case ReplaceByMask:
		out = replaceByMask(clipped, mask)
	default:
		err = fmt.Errorf("unknown composite rule %d", int(rule))
	}
	return
}

func overlayWins(clipped *Grid, mask *image.Gray) *Grid {
	out := clipped.Clone()
	b := mask.Bounds()
	for r := 0; r < clipped.Height; r++ {
		for c := 0; c < clipped.Width; c++ {
			if mask.GrayAt(b.Min.X+c, b.Min.Y+r).Y != Marked {
				continue
			}
			for _, band := range out.Bands {
				band[r*clipped.Width+c] = Marked
			}
		}
	}
	return out
}

func replaceByMask(clipped *Grid, mask *image.Gray) *Grid {
	out := clipped.CloneEmpty()
	b := mask.Bounds()
	for r := 0; r < clipped.Height; r++ {
		for c := 0; c < clipped.Width; c++ {
			v := mask.GrayAt(b.Min.X+c, b.Min.Y+r).Y
			if v == Marked {
				continue
			}
			idx := r*clipped.Width + c
			for i, band := range out.Bands {
				// 原值写入后立即被遮罩值覆盖，与既有产出保持一致
				band[idx] = clipped.Bands[i][idx]
				band[idx] = float64(v)
			}
		}
	}
	return out
}
