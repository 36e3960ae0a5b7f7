// Package password реализует хеширование и проверку паролей.
//
// Новые пароли хешируются bcrypt. CompareHash дополнительно понимает хеши,
// перенесённые из старой базы (форматы werkzeug "pbkdf2:sha256:<iter>$salt$hex"
// и "scrypt:<n>:<r>:<p>$salt$hex"), чтобы такие пользователи могли войти
// и получить bcrypt-хеш при первом успешном входе.
package password

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

const (
	legacyPBKDF2Prefix = "pbkdf2:"
	legacyScryptPrefix = "scrypt:"

	defaultPBKDF2Iterations = 600000

	// MaxBytes предел длины пароля для bcrypt, в байтах, а не в символах.
	MaxBytes = 72
)

var (
	// ErrMismatch пароль не соответствует хешу.
	ErrMismatch = errors.New("password does not match")
	// ErrMalformedHash хеш не удалось разобрать.
	ErrMalformedHash = errors.New("malformed password hash")
)

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает хэш с введённым паролем за время, не зависящее от совпадения.
//
// Возвращает nil, если пароль соответствует хэшу, иначе — ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	var err error
	switch {
	case strings.HasPrefix(originalHash, legacyPBKDF2Prefix):
		err = comparePBKDF2(originalHash, externalPassword)
	case strings.HasPrefix(originalHash, legacyScryptPrefix):
		err = compareScrypt(originalHash, externalPassword)
	default:
		err = bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			err = ErrMismatch
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NeedsRehash сообщает, что хеш записан в устаревшем формате.
func NeedsRehash(encoded string) bool {
	return strings.HasPrefix(encoded, legacyPBKDF2Prefix) || strings.HasPrefix(encoded, legacyScryptPrefix)
}

// splitLegacy разбирает "<method>$<salt>$<hex>".
func splitLegacy(encoded string) (method, salt string, sum []byte, err error) {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return "", "", nil, ErrMalformedHash
	}
	sum, err = hex.DecodeString(parts[2])
	if err != nil {
		return "", "", nil, ErrMalformedHash
	}
	return parts[0], parts[1], sum, nil
}

func comparePBKDF2(encoded, pw string) error {
	method, salt, want, err := splitLegacy(encoded)
	if err != nil {
		return err
	}
	// pbkdf2:<digest>[:<iterations>]
	fields := strings.Split(method, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return ErrMalformedHash
	}
	var newHash func() hash.Hash
	switch fields[1] {
	case "sha256":
		newHash = sha256.New
	case "sha512":
		newHash = sha512.New
	case "sha1":
		newHash = sha1.New
	default:
		return ErrMalformedHash
	}
	iterations := defaultPBKDF2Iterations
	if len(fields) == 3 {
		iterations, err = strconv.Atoi(fields[2])
		if err != nil || iterations <= 0 {
			return ErrMalformedHash
		}
	}
	got := pbkdf2.Key([]byte(pw), []byte(salt), iterations, newHash().Size(), newHash)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}

func compareScrypt(encoded, pw string) error {
	method, salt, want, err := splitLegacy(encoded)
	if err != nil {
		return err
	}
	// scrypt:<n>:<r>:<p>
	fields := strings.Split(method, ":")
	if len(fields) != 4 {
		return ErrMalformedHash
	}
	params := make([]int, 3)
	for i, f := range fields[1:] {
		params[i], err = strconv.Atoi(f)
		if err != nil || params[i] <= 0 {
			return ErrMalformedHash
		}
	}
	got, err := scrypt.Key([]byte(pw), []byte(salt), params[0], params[1], params[2], len(want))
	if err != nil {
		return ErrMalformedHash
	}
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}
