package auth

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

const gravatarBaseURL = "https://www.gravatar.com/avatar/"

// defaultAvatarURL derives a Gravatar identicon from the email.
func defaultAvatarURL(email string) string {
	sum := md5.Sum([]byte(domain.NormalizeEmail(email)))
	return fmt.Sprintf("%s%s?s=%d&d=identicon", gravatarBaseURL, hex.EncodeToString(sum[:]), defaultAvatarSize)
}

func avatarKey(userID, ext string) string {
	return "avatars/" + userID + ext
}

// avatarExt maps the encoded content type to the stored extension. The
// uploaded file name never reaches the key.
func avatarExt(contentType string) string {
	if contentType == "image/png" {
		return ".png"
	}
	return ".jpg"
}

// previousAvatarKey returns the key of a stored avatar URL owned by userID,
// or "" for anything else (e.g. the Gravatar default).
func previousAvatarKey(userID, avatarURL string) string {
	if avatarURL == "" {
		return ""
	}
	if i := strings.IndexAny(avatarURL, "?#"); i >= 0 {
		avatarURL = avatarURL[:i]
	}
	name := path.Base(avatarURL)
	if !strings.HasPrefix(name, userID+".") {
		return ""
	}
	return "avatars/" + name
}

// UpdateAvatar resizes the uploaded temp file into the user's avatar and
// stores it under a stable per-user key. tmpPath is always removed.
func (s *Service) UpdateAvatar(ctx context.Context, userID, tmpPath, originalName string) (string, error) {
	defer func() { _ = os.Remove(tmpPath) }()

	if userID == "" {
		return "", domain.ErrTokenInvalid()
	}

	prev, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", domain.ErrInternal(err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))

	out, contentType, err := s.images.SquareAvatar(data, ext, s.avatarSize)
	if err != nil {
		return "", err
	}

	key := avatarKey(userID, avatarExt(contentType))
	url, err := s.avatars.Put(ctx, key, out, contentType)
	if err != nil {
		return "", err
	}

	if err := s.users.UpdateAvatarURL(ctx, userID, url); err != nil {
		_ = s.avatars.Delete(ctx, key)
		return "", err
	}

	if old := previousAvatarKey(userID, prev.AvatarURL); old != "" && old != key {
		if err := s.avatars.Delete(ctx, old); err != nil {
			s.audit("avatar_cleanup_failed", map[string]string{"user_id": userID, "key": old, "error": err.Error()})
		}
	}

	s.audit("avatar_updated", map[string]string{"user_id": userID, "key": key})
	return url, nil
}
