package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "bh_access_token"
	COOKIE_REDIRECT_NAME     = "bh_post_login_redirect"
)
