package services

import (
	"context"
	"strings"
	"time"

	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const GrantValidity = 2 * time.Hour

type MediaCredentials struct {
	Endpoint  string
	APIKey    string
	APISecret string
}

type GrantRequest struct {
	Identity string
	Name     string
	Room     string
}

// LoadMediaCredentials reads the LiveKit key pair and server URL from settings.
func LoadMediaCredentials() (MediaCredentials, error) {
	cred := MediaCredentials{
		Endpoint:  viper.GetString("calling.endpoint"),
		APIKey:    viper.GetString("calling.api_key"),
		APISecret: viper.GetString("calling.api_secret"),
	}
	if len(cred.APIKey) == 0 || len(cred.APISecret) == 0 || len(cred.Endpoint) == 0 {
		return cred, newError(ErrConfiguration, "LiveKit credentials are not configured")
	}
	return cred, nil
}

// signGrant is swapped in tests to observe signing calls.
var signGrant = func(tk *auth.AccessToken) (string, error) {
	return tk.ToJWT()
}

func EncodeMeetingToken(req GrantRequest, cred MediaCredentials) (string, error) {
	grant := &auth.VideoGrant{
		Room:           req.Room,
		RoomJoin:       true,
		CanPublish:     lo.ToPtr(true),
		CanSubscribe:   lo.ToPtr(true),
		CanPublishData: lo.ToPtr(true),
	}

	tk := auth.NewAccessToken(cred.APIKey, cred.APISecret)
	tk.AddGrant(grant).
		SetIdentity(req.Identity).
		SetName(req.Name).
		SetValidFor(GrantValidity)

	token, err := signGrant(tk)
	if err != nil {
		return token, wrapUpstream(err)
	}
	return token, nil
}

func roomServiceHost(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "wss://"):
		return "https://" + strings.TrimPrefix(endpoint, "wss://")
	case strings.HasPrefix(endpoint, "ws://"):
		return "http://" + strings.TrimPrefix(endpoint, "ws://")
	case strings.Contains(endpoint, "://"):
		return endpoint
	default:
		return "https://" + endpoint
	}
}

func newRoomServiceClient() (*lksdk.RoomServiceClient, error) {
	cred, err := LoadMediaCredentials()
	if err != nil {
		return nil, err
	}
	return lksdk.NewRoomServiceClient(roomServiceHost(cred.Endpoint), cred.APIKey, cred.APISecret), nil
}

// ListRoomParticipants asks LiveKit who is currently connected to a room.
func ListRoomParticipants(ctx context.Context, room string) ([]*livekit.ParticipantInfo, error) {
	client, err := newRoomServiceClient()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := client.ListParticipants(ctx, &livekit.ListParticipantsRequest{Room: room})
	if err != nil {
		return nil, wrapUpstream(err)
	}
	return res.Participants, nil
}
