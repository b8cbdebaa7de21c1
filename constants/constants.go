package constants

import "time"

const (
	APP_NAME   = "BlogSite"
	PUBLIC_URL = "https://demo.suayb.xyz"

	MAX_POSTS_PER_PAGE = 100
	MAX_EXCERPT_LENGTH = 300
	MAX_UPLOAD_BYTES   = 10 << 20

	// How long a counted view suppresses further counts from the same viewer.
	VIEW_COOLDOWN = time.Hour

	// Session tokens are valid for this long after issue.
	ACCESS_TOKEN_TTL = 60 * time.Minute
)
