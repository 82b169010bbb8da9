package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/subtle"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/broadside/internal/dependencies/clock"
	"github.com/mcoot/broadside/internal/model"
	"github.com/mcoot/broadside/internal/storage"
)

// ReadProofPlaintext is the fixed plaintext a client must encrypt to prove
// identity for read access. Fire access uses the game's round challenge
// instead, so read proofs can never authorise a shot.
const ReadProofPlaintext = "Request"

// Service issues player identities and validates per-request proofs.
//
// There are no session tokens: a client proves it is a roster member by
// encrypting an expected plaintext against its public key, and the server
// decrypts with the private half that never left the store.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
	keyBits int
}

// Config holds configuration for the identity service
type Config struct {
	// KeyBits is the RSA modulus size for issued keypairs
	KeyBits int
}

// DefaultConfig returns default identity configuration
func DefaultConfig() Config {
	return Config{
		KeyBits: 2048,
	}
}

// New creates a new identity service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.KeyBits == 0 {
		cfg.KeyBits = DefaultConfig().KeyBits
	}
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "identity")),
		keyBits: cfg.KeyBits,
	}
}

// Identity is the client-visible half of an issued identity
type Identity struct {
	Handle    model.Handle
	PublicKey string // PEM
}

// IssueIdentity generates a fresh keypair, allocates the next sequential
// handle and persists the full keypair; only the public half is returned
func (s *Service) IssueIdentity(ctx context.Context) (*Identity, error) {
	seq, err := s.storage.NextPlayerSeq(ctx)
	if err != nil {
		return nil, err
	}
	handle := model.Handle(fmt.Sprintf("player_%d", seq))

	key, err := rsa.GenerateKey(rand.Reader, s.keyBits)
	if err != nil {
		return nil, err
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, err
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}

	player := &model.Player{
		Handle:     handle,
		PublicKey:  pubDER,
		PrivateKey: privDER,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("identity issued", slog.String("handle", string(handle)))

	return &Identity{
		Handle:    handle,
		PublicKey: EncodePublicKey(pubDER),
	}, nil
}

// VerifyProof decrypts a base64 proof with the handle's private key and
// compares the plaintext against want. A proof that fails to decode,
// decrypt or match yields ErrAuthenticationFailed; an unknown handle is
// surfaced as ErrPlayerNotFound.
func (s *Service) VerifyProof(ctx context.Context, handle model.Handle, proof, want string) error {
	player, err := s.storage.GetPlayer(ctx, handle)
	if err != nil {
		return err
	}

	parsed, err := x509.ParsePKCS8PrivateKey(player.PrivateKey)
	if err != nil {
		return err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return errors.New("stored private key is not RSA")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(proof)
	if err != nil {
		return model.ErrAuthenticationFailed
	}

	plaintext, err := rsa.DecryptOAEP(sha256.New(), nil, key, ciphertext, nil)
	if err != nil {
		return model.ErrAuthenticationFailed
	}

	if subtle.ConstantTimeCompare(plaintext, []byte(want)) != 1 {
		return model.ErrAuthenticationFailed
	}
	return nil
}

// EncodePublicKey renders a PKIX DER public key as PEM
func EncodePublicKey(der []byte) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

// EncryptProof builds a proof the way a client does: encrypt the plaintext
// against the PEM public key and base64 the ciphertext. Lives here so the
// CLI client and tests share one implementation of the wire format.
func EncryptProof(publicKeyPEM, plaintext string) (string, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return "", errors.New("invalid public key PEM")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return "", err
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return "", errors.New("public key is not RSA")
	}

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, key, []byte(plaintext), nil)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Interface for dependency injection
type ServiceInterface interface {
	IssueIdentity(ctx context.Context) (*Identity, error)
	VerifyProof(ctx context.Context, handle model.Handle, proof, want string) error
}

var _ ServiceInterface = (*Service)(nil)
