package storage

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrTokenNotFound is returned when no token is stored for a user
var ErrTokenNotFound = errors.New("token not found")

// TokenStore keeps personal Jira API tokens keyed by Jira username
type TokenStore interface {
	GetToken(ctx context.Context, username string) (string, error)
	SetToken(ctx context.Context, username, token string) error
}

// ObjectAPI is the subset of *s3.Client used by S3TokenStore
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3TokenStore implements TokenStore using AWS S3
type S3TokenStore struct {
	client     ObjectAPI
	bucketName string
	encryptKey []byte // 32-byte key for AES-256
}

type tokenData struct {
	Token string `json:"token"`
}

// NewS3TokenStore creates a new S3TokenStore instance
func NewS3TokenStore(client ObjectAPI, bucketName string, encryptKey []byte) (*S3TokenStore, error) {
	if len(encryptKey) != 32 {
		return nil, fmt.Errorf("encrypt key must be 32 bytes, got %d", len(encryptKey))
	}
	return &S3TokenStore{
		client:     client,
		bucketName: bucketName,
		encryptKey: encryptKey,
	}, nil
}

// GetToken retrieves and decrypts the token of username
func (s *S3TokenStore) GetToken(ctx context.Context, username string) (string, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey(username)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to get token from S3: %w", err)
	}
	defer result.Body.Close()

	var data tokenData
	if err := json.NewDecoder(result.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode token data: %w", err)
	}

	token, err := s.decrypt(data.Token)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt token: %w", err)
	}
	return token, nil
}

// SetToken encrypts and stores the token of username
func (s *S3TokenStore) SetToken(ctx context.Context, username, token string) error {
	encrypted, err := s.encrypt(token)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	jsonData, err := json.Marshal(tokenData{Token: encrypted})
	if err != nil {
		return fmt.Errorf("failed to marshal token data: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectKey(username)),
		Body:        bytes.NewReader(jsonData),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to store token in S3: %w", err)
	}
	return nil
}

// encrypt seals plaintext with AES-GCM, prefixing the random nonce
func (s *S3TokenStore) encrypt(plaintext string) (string, error) {
	aesGCM, err := s.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := aesGCM.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (s *S3TokenStore) decrypt(encryptedText string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encryptedText)
	if err != nil {
		return "", err
	}

	aesGCM, err := s.gcm()
	if err != nil {
		return "", err
	}
	if len(ciphertext) < aesGCM.NonceSize() {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:aesGCM.NonceSize()], ciphertext[aesGCM.NonceSize():]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func (s *S3TokenStore) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.encryptKey)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// objectKey is the S3 key of a user's token; usernames are emails, so escape them
func objectKey(username string) string {
	return fmt.Sprintf("tokens/%s.json", url.PathEscape(username))
}

// MemoryTokenStore keeps tokens in process memory
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemoryTokenStore returns an empty MemoryTokenStore
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]string)}
}

func (m *MemoryTokenStore) GetToken(_ context.Context, username string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	token, ok := m.tokens[username]
	if !ok {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (m *MemoryTokenStore) SetToken(_ context.Context, username, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[username] = token
	return nil
}
