package dingbot

// Credentials identify the robot (AccessToken) and authorize posts to it (Secret).
type Credentials struct {
	AccessToken string
	Secret      string
}

// NewCredentials fails fast with ErrMissingCredentials if either value is empty.
func NewCredentials(accessToken, secret string) (Credentials, error) {
	if accessToken == "" || secret == "" {
		return Credentials{}, ErrMissingCredentials
	}
	return Credentials{AccessToken: accessToken, Secret: secret}, nil
}
