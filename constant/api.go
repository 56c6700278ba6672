package constant

// Platform API endpoints. Both expect the video id as the single format argument.
const (
	// PlayOptionsURL returns the play-options JSON document holding the title,
	// duration and the master playlist location for a regular or shorts video.
	PlayOptionsURL = "https://rutube.ru/api/play/options/%s/?no_404=true&referer=https%%253A%%252F%%252Frutube.ru&pver=v2"

	// YappyPageURL returns the results document holding direct links for a yappy short.
	YappyPageURL = "https://rutube.ru/pangolin/api/web/yappy/yappypage/?client=wdp&source=shorts&videoId=%s"
)
