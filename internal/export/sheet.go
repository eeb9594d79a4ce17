package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/dmitrijs2005/storyboard/internal/common"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
)

const (
	thumbWidth  = 480
	thumbHeight = 270
	sheetCols   = 3
	sheetGap    = 16
)

// ContactSheet renders the scene stills, in ordinal order, as a PNG grid of
// 16:9 thumbnails. Scenes without a still are left out.
func ContactSheet(st storyboard.State) ([]byte, error) {
	var thumbs []image.Image
	for _, sc := range st.Scenes {
		still, ok := storyboard.StillOf(sc.Media)
		if !ok {
			continue
		}
		img, err := imaging.Decode(bytes.NewReader(still.Data))
		if err != nil {
			return nil, fmt.Errorf("decode still for scene %d: %w", sc.Number, err)
		}
		thumbs = append(thumbs, imaging.Fill(img, thumbWidth, thumbHeight, imaging.Center, imaging.Lanczos))
	}
	if len(thumbs) == 0 {
		return nil, common.ErrNoStills
	}

	cols := min(len(thumbs), sheetCols)
	rows := (len(thumbs) + sheetCols - 1) / sheetCols
	width := cols*thumbWidth + (cols+1)*sheetGap
	height := rows*thumbHeight + (rows+1)*sheetGap

	sheet := imaging.New(width, height, color.White)
	for i, th := range thumbs {
		x := sheetGap + (i%sheetCols)*(thumbWidth+sheetGap)
		y := sheetGap + (i/sheetCols)*(thumbHeight+sheetGap)
		sheet = imaging.Paste(sheet, th, image.Pt(x, y))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, sheet, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode contact sheet: %w", err)
	}
	return buf.Bytes(), nil
}
