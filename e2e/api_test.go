package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/broadside/internal/api"
	"github.com/mcoot/broadside/internal/api/response"
	"github.com/mcoot/broadside/internal/factory"
	"github.com/mcoot/broadside/internal/services/identity"
	"github.com/mcoot/broadside/internal/testutil"
)

// APISuite drives the full HTTP surface against an in-process server
type APISuite struct {
	suite.Suite
	app    *factory.TestApp
	server *httptest.Server
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.app = factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:              testutil.NopLogger(),
		IdentityService:     s.app.IdentityService,
		DirectoryController: s.app.DirectoryController,
		SessionController:   s.app.SessionController,
		FireController:      s.app.FireController,
		Notifier:            s.app.Notifier,
	})
	s.server = httptest.NewServer(router)
}

func (s *APISuite) TearDownTest() {
	s.server.Close()
}

// post sends a JSON body and decodes the JSON response, returning the status
func (s *APISuite) post(path string, body, result any) int {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	resp, err := http.Post(s.server.URL+path, "application/json", reader)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	if result != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(result))
	}
	return resp.StatusCode
}

func (s *APISuite) get(path string, result any) int {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	if result != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(result))
	}
	return resp.StatusCode
}

func (s *APISuite) issueIdentity() response.Identity {
	var id response.Identity
	status := s.post("/api/v1/players", nil, &id)
	s.Require().Equal(http.StatusCreated, status)
	return id
}

func (s *APISuite) proof(id response.Identity, plaintext string) string {
	proof, err := identity.EncryptProof(id.PublicKey, plaintext)
	s.Require().NoError(err)
	return proof
}

func (s *APISuite) TestHealth() {
	var health map[string]string
	status := s.get("/api/v1/health", &health)
	s.Equal(http.StatusOK, status)
	s.Equal("ok", health["status"])
}

func (s *APISuite) TestIdentityIssuance() {
	first := s.issueIdentity()
	second := s.issueIdentity()

	s.Equal("player_0", first.Handle)
	s.Equal("player_1", second.Handle)
	s.Contains(first.PublicKey, "BEGIN PUBLIC KEY")
}

func (s *APISuite) TestCreateGameValidation() {
	var errResp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	status := s.post("/api/v1/games", map[string]int{"capacity": 1}, &errResp)
	s.Equal(http.StatusBadRequest, status)
	s.Equal("INVALID_CAPACITY", errResp.Error.Code)
}

func (s *APISuite) TestUnknownGame() {
	var errResp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	status := s.post("/api/v1/games/999/view", map[string]string{}, &errResp)
	s.Equal(http.StatusNotFound, status)
	s.Equal("GAME_NOT_FOUND", errResp.Error.Code)
}

func (s *APISuite) TestFullSessionFlow() {
	alice := s.issueIdentity()
	bob := s.issueIdentity()

	// Create a two-seat game
	var created response.CreateGameResponse
	status := s.post("/api/v1/games", map[string]int{"capacity": 2}, &created)
	s.Require().Equal(http.StatusCreated, status)
	s.Equal("filling", created.State)

	gamePath := fmt.Sprintf("/api/v1/games/%d", created.GameID)

	// The directory lists it
	var dir response.DirectoryResponse
	status = s.get("/api/v1/games", &dir)
	s.Require().Equal(http.StatusOK, status)
	s.Require().Len(dir.Games, 1)
	s.Equal(created.GameID, dir.Games[0].GameID)

	// Both players join; the game starts on the second join
	var joined response.JoinGameResponse
	status = s.post(gamePath+"/join", map[string]string{"handle": alice.Handle}, &joined)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("joined", joined.Outcome)
	s.Equal("filling", joined.State)

	status = s.post(gamePath+"/join", map[string]string{"handle": bob.Handle}, &joined)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("active", joined.State)
	s.Equal([]string{alice.Handle, bob.Handle}, joined.Roster)

	// A third seat is not available
	carol := s.issueIdentity()
	status = s.post(gamePath+"/join", map[string]string{"handle": carol.Handle}, &joined)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("spectator", joined.Outcome)

	// Alice views with a read proof and learns the round challenge
	var view response.ViewResponse
	status = s.post(gamePath+"/view", map[string]string{
		"handle": alice.Handle,
		"proof":  s.proof(alice, identity.ReadProofPlaintext),
	}, &view)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("player", view.Access)
	s.Require().NotEmpty(view.Challenge)
	s.Len(view.Fleet, 5)

	// A proofless view is spectator-grade: no challenge, no fleet
	var publicView response.ViewResponse
	status = s.post(gamePath+"/view", map[string]string{}, &publicView)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("spectator", publicView.Access)
	s.Empty(publicView.Challenge)
	s.Empty(publicView.Fleet)

	// Alice fires at Bob's Carrier cell
	var fired response.FireResponse
	status = s.post(gamePath+"/fire", map[string]any{
		"from": 0, "target": 1, "x": 0, "y": 0,
		"proof": s.proof(alice, view.Challenge),
	}, &fired)
	s.Require().Equal(http.StatusOK, status)
	s.True(fired.Accepted)
	s.Equal("hit", fired.Outcome)

	// Firing again in the same round is a conflict
	var errResp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	status = s.post(gamePath+"/fire", map[string]any{
		"from": 0, "target": 1, "x": 1, "y": 0,
		"proof": s.proof(alice, view.Challenge),
	}, &errResp)
	s.Equal(http.StatusConflict, status)
	s.Equal("ALREADY_FIRED", errResp.Error.Code)

	// Bob closes the round
	status = s.post(gamePath+"/fire", map[string]any{
		"from": 1, "target": 0, "x": 9, "y": 9,
		"proof": s.proof(bob, view.Challenge),
	}, &fired)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("miss", fired.Outcome)
	s.True(fired.RoundComplete)

	// Alice's hit is visible on the shared board
	status = s.post(gamePath+"/view", map[string]string{}, &publicView)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("hit", publicView.Board.Cells[0][0].Fired[1].State)
}

func (s *APISuite) TestFireWithBadProofForbidden() {
	alice := s.issueIdentity()
	bob := s.issueIdentity()

	var created response.CreateGameResponse
	s.post("/api/v1/games", map[string]int{"capacity": 2}, &created)
	gamePath := fmt.Sprintf("/api/v1/games/%d", created.GameID)
	s.post(gamePath+"/join", map[string]string{"handle": alice.Handle}, nil)
	s.post(gamePath+"/join", map[string]string{"handle": bob.Handle}, nil)

	var errResp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	status := s.post(gamePath+"/fire", map[string]any{
		"from": 0, "target": 1, "x": 0, "y": 0,
		"proof": s.proof(alice, "stale or fabricated"),
	}, &errResp)
	s.Equal(http.StatusForbidden, status)
	s.Equal("AUTHENTICATION_FAILED", errResp.Error.Code)
}
