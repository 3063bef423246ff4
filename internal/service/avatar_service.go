package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"mime"
	"net/http"
	"strings"

	"vibella/internal/config"
	"vibella/internal/models"
	"vibella/internal/observability"
	"vibella/internal/repository"
	"vibella/internal/storage"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultAvatarMaxUploadSizeMB = 5
	AvatarSize                   = 512
	JPEGQuality                  = 82
	WebPQuality                  = 70
)

type UploadAvatarInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

type AvatarService struct {
	userRepo           repository.UserRepository
	store              storage.ObjectStore
	maxUploadSizeBytes int64
}

func NewAvatarService(userRepo repository.UserRepository, store storage.ObjectStore, cfg *config.Config) *AvatarService {
	maxUploadSizeMB := DefaultAvatarMaxUploadSizeMB
	if cfg != nil && cfg.AvatarMaxUploadSizeMB > 0 {
		maxUploadSizeMB = cfg.AvatarMaxUploadSizeMB
	}
	return &AvatarService{
		userRepo:           userRepo,
		store:              store,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Upload validates and normalizes an avatar image, stores JPEG and WebP
// renditions, and points the user's profile at the JPEG URL.
func (s *AvatarService) Upload(ctx context.Context, in UploadAvatarInput) (*models.User, error) {
	user, err := s.uploadAvatar(ctx, in)
	if err != nil {
		if _, ok := err.(*models.AppError); ok {
			observability.AvatarUploads.WithLabelValues("rejected").Inc()
		} else {
			observability.AvatarUploads.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	observability.AvatarUploads.WithLabelValues("ok").Inc()
	return user, nil
}

func (s *AvatarService) uploadAvatar(ctx context.Context, in UploadAvatarInput) (*models.User, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	// Avatars are always square: center-crop then scale down to 512px.
	square := cropToSquare(decoded)
	avatar := resizeToFit(square, AvatarSize, AvatarSize)

	encodedJPG, err := encodeJPEG(avatar, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	encodedWebP, err := encodeWebP(avatar, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	hash := buildAvatarHash(in.UserID, encodedJPG)
	jpgName := fmt.Sprintf("avatars/%s.jpg", hash)
	webpName := fmt.Sprintf("avatars/%s.webp", hash)

	jpgURL, err := s.store.Put(ctx, jpgName, "image/jpeg", encodedJPG)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if _, err := s.store.Put(ctx, webpName, "image/webp", encodedWebP); err != nil {
		_ = s.store.Remove(ctx, jpgName)
		return nil, models.NewInternalError(err)
	}

	user.AvatarURL = jpgURL
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func cropToSquare(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return src
	}

	side := w
	if h < side {
		side = h
	}
	x := b.Min.X + (w-side)/2
	y := b.Min.Y + (h-side)/2

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), src, image.Point{X: x, Y: y}, draw.Src)
	return dst
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func buildAvatarHash(userID uint, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%d:", userID)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
