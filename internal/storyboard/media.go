package storyboard

// Media is what has been rendered for a scene: NoMedia, ImageReady or
// VideoReady. A nil Media means NoMedia.
type Media interface {
	media()
}

type NoMedia struct{}

type ImageReady struct {
	Image Blob
}

// VideoReady keeps the still the video was made from, if there was one.
type VideoReady struct {
	Video Blob
	Still *Blob
}

func (NoMedia) media()    {}
func (ImageReady) media() {}
func (VideoReady) media() {}

// Preview returns the item to display for m. A video always wins over an
// image.
func Preview(m Media) (Blob, bool) {
	if v, ok := VideoOf(m); ok {
		return v, true
	}
	return StillOf(m)
}

func VideoOf(m Media) (Blob, bool) {
	if v, ok := m.(VideoReady); ok {
		return v.Video, true
	}
	return Blob{}, false
}

func StillOf(m Media) (Blob, bool) {
	switch v := m.(type) {
	case ImageReady:
		return v.Image, true
	case VideoReady:
		if v.Still != nil {
			return *v.Still, true
		}
	}
	return Blob{}, false
}

func withImage(m Media, img Blob) Media {
	if v, ok := m.(VideoReady); ok {
		return VideoReady{Video: v.Video, Still: &img}
	}
	return ImageReady{Image: img}
}

func withVideo(m Media, video Blob) Media {
	if still, ok := StillOf(m); ok {
		return VideoReady{Video: video, Still: &still}
	}
	return VideoReady{Video: video}
}
