package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/collab/pkg/internal/database"
	"git.solsynth.dev/hypernet/collab/pkg/internal/models"
	"git.solsynth.dev/hypernet/collab/pkg/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/livekit/protocol/auth"
	"github.com/samber/lo"
)

var roomNamePattern = regexp.MustCompile(`^collab-[0-9a-f]{8}-[0-9a-f]{8}$`)

// countSigning replaces the grant signer with one that counts calls.
func countSigning(t *testing.T, fail error) *int {
	t.Helper()

	calls := 0
	previous := signGrant
	signGrant = func(tk *auth.AccessToken) (string, error) {
		calls++
		if fail != nil {
			return "", fail
		}
		return previous(tk)
	}
	t.Cleanup(func() { signGrant = previous })
	return &calls
}

func newCaller(t *testing.T) *models.Caller {
	t.Helper()
	account := testutil.CreateAccount(t, "Al", "a@b.com")
	return lo.ToPtr(account.ToCaller())
}

func parseGrant(t *testing.T, token string) jwt.MapClaims {
	t.Helper()

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testutil.TestAPISecret), nil
	}); err != nil {
		t.Fatalf("failed to parse grant: %v", err)
	}
	return claims
}

func TestCreateMeeting_Success(t *testing.T) {
	testutil.NewDatabase(t)
	testutil.UseSettings(t)
	caller := newCaller(t)

	result, err := CreateMeeting(caller, CreateMeetingInput{Title: "Standup"})
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}

	if result.RedirectURL != "/meeting/"+result.MeetingID {
		t.Errorf("RedirectURL = %q, want /meeting/%s", result.RedirectURL, result.MeetingID)
	}
	if !roomNamePattern.MatchString(result.RoomName) {
		t.Errorf("RoomName = %q does not match %s", result.RoomName, roomNamePattern)
	}
	if want := "collab-" + caller.ID[:8] + "-"; result.RoomName[:len(want)] != want {
		t.Errorf("RoomName = %q, want prefix %q", result.RoomName, want)
	}

	meeting, err := GetMeeting(result.MeetingID)
	if err != nil {
		t.Fatalf("GetMeeting failed: %v", err)
	}
	if meeting.RoomName != result.RoomName {
		t.Errorf("stored RoomName = %q, want %q", meeting.RoomName, result.RoomName)
	}
	if meeting.Title != "Standup" {
		t.Errorf("Title = %q, want Standup", meeting.Title)
	}
	if meeting.CreatorID != caller.ID {
		t.Errorf("CreatorID = %q, want %q", meeting.CreatorID, caller.ID)
	}
	if meeting.OrganizationID != nil {
		t.Errorf("OrganizationID = %v, want nil", *meeting.OrganizationID)
	}

	claims := parseGrant(t, result.Token)
	if claims["sub"] != caller.ID {
		t.Errorf("grant identity = %v, want %q", claims["sub"], caller.ID)
	}
	if claims["iss"] != testutil.TestAPIKey {
		t.Errorf("grant issuer = %v, want %q", claims["iss"], testutil.TestAPIKey)
	}
	if claims["name"] != "Al" {
		t.Errorf("grant name = %v, want Al", claims["name"])
	}
	video, ok := claims["video"].(map[string]interface{})
	if !ok {
		t.Fatalf("grant has no video claim: %v", claims)
	}
	if video["room"] != result.RoomName {
		t.Errorf("grant room = %v, want %q", video["room"], result.RoomName)
	}
	for _, capability := range []string{"roomJoin", "canPublish", "canSubscribe", "canPublishData"} {
		if video[capability] != true {
			t.Errorf("grant %s = %v, want true", capability, video[capability])
		}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("grant has no expiry: %v", err)
	}
	if ttl := time.Until(exp.Time); ttl < GrantValidity-time.Minute || ttl > GrantValidity+time.Minute {
		t.Errorf("grant ttl = %v, want about %v", ttl, GrantValidity)
	}
}

func TestCreateMeeting_DefaultsAndOrganization(t *testing.T) {
	testutil.NewDatabase(t)
	testutil.UseSettings(t)
	caller := newCaller(t)

	org := models.Organization{Name: "Acme", Slug: "acme"}
	if err := database.C.Create(&org).Error; err != nil {
		t.Fatalf("failed to create organization: %v", err)
	}

	result, err := CreateMeeting(caller, CreateMeetingInput{OrganizationID: &org.ID})
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}

	meeting, err := GetMeeting(result.MeetingID)
	if err != nil {
		t.Fatalf("GetMeeting failed: %v", err)
	}
	if meeting.Title != models.DefaultMeetingTitle {
		t.Errorf("Title = %q, want %q", meeting.Title, models.DefaultMeetingTitle)
	}
	if meeting.OrganizationID == nil || *meeting.OrganizationID != org.ID {
		t.Errorf("OrganizationID = %v, want %q", meeting.OrganizationID, org.ID)
	}
}

func TestCreateMeeting_UnknownOrganization(t *testing.T) {
	testutil.NewDatabase(t)
	testutil.UseSettings(t)
	caller := newCaller(t)

	_, err := CreateMeeting(caller, CreateMeetingInput{OrganizationID: lo.ToPtr("missing")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("CreateMeeting error = %v, want ErrNotFound", err)
	}
	if n := testutil.CountRows(t, &models.Meeting{}); n != 0 {
		t.Errorf("meetings = %d, want 0", n)
	}
}

func TestCreateMeeting_Unauthenticated(t *testing.T) {
	testutil.NewDatabase(t)
	testutil.UseSettings(t)

	_, err := CreateMeeting(nil, CreateMeetingInput{Title: "Standup"})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("CreateMeeting error = %v, want ErrUnauthenticated", err)
	}
	if n := testutil.CountRows(t, &models.Meeting{}); n != 0 {
		t.Errorf("meetings = %d, want 0", n)
	}
}

func TestCreateMeeting_MissingCredentialsLeavesNoMeeting(t *testing.T) {
	testutil.NewDatabase(t)
	testutil.UseSettings(t)
	testutil.WithoutMediaCredentials(t)
	caller := newCaller(t)
	calls := countSigning(t, nil)

	_, err := CreateMeeting(caller, CreateMeetingInput{Title: "Standup"})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("CreateMeeting error = %v, want ErrConfiguration", err)
	}
	if n := testutil.CountRows(t, &models.Meeting{}); n != 0 {
		t.Errorf("meetings = %d, want 0", n)
	}
	if *calls != 0 {
		t.Errorf("signing calls = %d, want 0", *calls)
	}
}

func TestCreateMeeting_SigningFailureLeavesNoMeeting(t *testing.T) {
	testutil.NewDatabase(t)
	testutil.UseSettings(t)
	caller := newCaller(t)
	countSigning(t, errors.New("signer unavailable"))

	_, err := CreateMeeting(caller, CreateMeetingInput{Title: "Standup"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("CreateMeeting error = %v, want ErrUpstream", err)
	}
	if n := testutil.CountRows(t, &models.Meeting{}); n != 0 {
		t.Errorf("meetings = %d, want 0", n)
	}
}

func TestGetMeetingToken(t *testing.T) {
	testutil.NewDatabase(t)
	testutil.UseSettings(t)
	host := newCaller(t)

	created, err := CreateMeeting(host, CreateMeetingInput{Title: "Standup"})
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}

	guestAccount := testutil.CreateAccount(t, "", "guest@b.com")
	guest := lo.ToPtr(guestAccount.ToCaller())

	t.Run("host", func(t *testing.T) {
		result, err := GetMeetingToken(host, created.MeetingID)
		if err != nil {
			t.Fatalf("GetMeetingToken failed: %v", err)
		}
		if result.RoomName != created.RoomName || result.MeetingTitle != "Standup" {
			t.Errorf("result = %+v, want room %q titled Standup", result, created.RoomName)
		}
		if result.ServerURL != testutil.TestEndpoint {
			t.Errorf("ServerURL = %q, want %q", result.ServerURL, testutil.TestEndpoint)
		}
		if !result.IsHost || result.IsParticipant {
			t.Errorf("IsHost = %v, IsParticipant = %v, want true, false", result.IsHost, result.IsParticipant)
		}
	})

	t.Run("any authenticated caller may join", func(t *testing.T) {
		result, err := GetMeetingToken(guest, created.MeetingID)
		if err != nil {
			t.Fatalf("GetMeetingToken failed: %v", err)
		}
		if result.IsHost || result.IsParticipant {
			t.Errorf("IsHost = %v, IsParticipant = %v, want false, false", result.IsHost, result.IsParticipant)
		}
		claims := parseGrant(t, result.Token)
		if claims["name"] != "guest@b.com" {
			t.Errorf("grant name = %v, want the email fallback", claims["name"])
		}
	})

	t.Run("listed participant", func(t *testing.T) {
		if err := database.C.Create(&models.Participant{
			MeetingID: created.MeetingID,
			AccountID: guest.ID,
			Role:      models.ParticipantRoleParticipant,
		}).Error; err != nil {
			t.Fatalf("failed to create participant: %v", err)
		}

		result, err := GetMeetingToken(guest, created.MeetingID)
		if err != nil {
			t.Fatalf("GetMeetingToken failed: %v", err)
		}
		if result.IsHost || !result.IsParticipant {
			t.Errorf("IsHost = %v, IsParticipant = %v, want false, true", result.IsHost, result.IsParticipant)
		}
	})
}

func TestGetMeetingToken_Failures(t *testing.T) {
	testutil.NewDatabase(t)
	testutil.UseSettings(t)
	caller := newCaller(t)

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := GetMeetingToken(nil, "anything")
		if !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("GetMeetingToken error = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("unknown meeting does not sign", func(t *testing.T) {
		calls := countSigning(t, nil)

		_, err := GetMeetingToken(caller, "does-not-exist")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("GetMeetingToken error = %v, want ErrNotFound", err)
		}
		if *calls != 0 {
			t.Errorf("signing calls = %d, want 0", *calls)
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		created, err := CreateMeeting(caller, CreateMeetingInput{})
		if err != nil {
			t.Fatalf("CreateMeeting failed: %v", err)
		}
		testutil.WithoutMediaCredentials(t)

		_, err = GetMeetingToken(caller, created.MeetingID)
		if !errors.Is(err, ErrConfiguration) {
			t.Errorf("GetMeetingToken error = %v, want ErrConfiguration", err)
		}
		if n := testutil.CountRows(t, &models.Meeting{}); n != 1 {
			t.Errorf("meetings = %d, want 1", n)
		}
	})
}
