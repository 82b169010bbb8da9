package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/broadside/internal/dependencies/mocks"
	"github.com/mcoot/broadside/internal/model"
	"github.com/mcoot/broadside/internal/storage/memory"
	"github.com/mcoot/broadside/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	// Small keys keep the suite fast
	s.service = New(s.storage, s.clock, Config{KeyBits: 1024}, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestIssueIdentityAllocatesSequentialHandles() {
	first, err := s.service.IssueIdentity(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.Handle("player_0"), first.Handle)

	second, err := s.service.IssueIdentity(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.Handle("player_1"), second.Handle)
}

func (s *ServiceSuite) TestIssueIdentityReturnsPEMPublicKey() {
	id, err := s.service.IssueIdentity(s.ctx)
	s.Require().NoError(err)
	s.Contains(id.PublicKey, "BEGIN PUBLIC KEY")
}

func (s *ServiceSuite) TestIssueIdentityPersistsKeypair() {
	id, err := s.service.IssueIdentity(s.ctx)
	s.Require().NoError(err)

	player, err := s.storage.GetPlayer(s.ctx, id.Handle)
	s.Require().NoError(err)
	s.NotEmpty(player.PublicKey)
	s.NotEmpty(player.PrivateKey)
	s.Equal(s.clock.Now(), player.CreatedAt)
}

func (s *ServiceSuite) TestVerifyProofAcceptsValidProof() {
	id, err := s.service.IssueIdentity(s.ctx)
	s.Require().NoError(err)

	proof, err := EncryptProof(id.PublicKey, ReadProofPlaintext)
	s.Require().NoError(err)

	err = s.service.VerifyProof(s.ctx, id.Handle, proof, ReadProofPlaintext)
	s.NoError(err)
}

func (s *ServiceSuite) TestVerifyProofRejectsWrongPlaintext() {
	id, err := s.service.IssueIdentity(s.ctx)
	s.Require().NoError(err)

	proof, err := EncryptProof(id.PublicKey, "not the expected plaintext")
	s.Require().NoError(err)

	err = s.service.VerifyProof(s.ctx, id.Handle, proof, ReadProofPlaintext)
	s.ErrorIs(err, model.ErrAuthenticationFailed)
}

func (s *ServiceSuite) TestVerifyProofRejectsGarbageBase64() {
	id, err := s.service.IssueIdentity(s.ctx)
	s.Require().NoError(err)

	err = s.service.VerifyProof(s.ctx, id.Handle, "!!!not-base64!!!", ReadProofPlaintext)
	s.ErrorIs(err, model.ErrAuthenticationFailed)
}

func (s *ServiceSuite) TestVerifyProofRejectsCiphertextForOtherKey() {
	alice, err := s.service.IssueIdentity(s.ctx)
	s.Require().NoError(err)
	bob, err := s.service.IssueIdentity(s.ctx)
	s.Require().NoError(err)

	// Encrypted against Alice's key, presented as Bob's proof
	proof, err := EncryptProof(alice.PublicKey, ReadProofPlaintext)
	s.Require().NoError(err)

	err = s.service.VerifyProof(s.ctx, bob.Handle, proof, ReadProofPlaintext)
	s.ErrorIs(err, model.ErrAuthenticationFailed)
}

func (s *ServiceSuite) TestVerifyProofUnknownHandle() {
	err := s.service.VerifyProof(s.ctx, "ghost", "whatever", ReadProofPlaintext)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestProofsAreNotReplayableAcrossChallenges() {
	id, err := s.service.IssueIdentity(s.ctx)
	s.Require().NoError(err)

	proof, err := EncryptProof(id.PublicKey, "challenge-round-1")
	s.Require().NoError(err)

	s.NoError(s.service.VerifyProof(s.ctx, id.Handle, proof, "challenge-round-1"))
	s.ErrorIs(
		s.service.VerifyProof(s.ctx, id.Handle, proof, "challenge-round-2"),
		model.ErrAuthenticationFailed,
	)
}
