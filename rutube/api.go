package rutube

// playOptions is the slice of the play-options JSON document the resolver
// needs: the display title, the duration and the master playlist location.
type playOptions struct {
	Title         string  `json:"title"`
	Duration      float64 `json:"duration"`
	VideoBalancer struct {
		M3U8 string `json:"m3u8"`
	} `json:"video_balancer"`
}

// yappyPage is the yappy lookup response. Only the direct content link of
// each result matters.
type yappyPage struct {
	Results []struct {
		Link string `json:"link"`
	} `json:"results"`
}
