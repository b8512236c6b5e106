package util

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"cineconnect/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const avatarFolder = "cineconnect/avatars"

// Supported avatar upload formats.
var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type CloudinaryClient struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryClient(cfg *config.Config) (*CloudinaryClient, error) {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not configured")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryClient{cld: cld}, nil
}

// UploadAvatar uploads an avatar image from a multipart file and returns the
// delivery URL. Images are cropped square around the face and served as WebP.
func (c *CloudinaryClient) UploadAvatar(ctx context.Context, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if !allowedAvatarTypes[contentType] {
		return "", fmt.Errorf("unsupported avatar format: %s", contentType)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("error opening upload: %w", err)
	}
	defer file.Close()

	result, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         avatarFolder,
		PublicID:       uuid.New().String(),
		Transformation: "c_thumb,g_face,w_256,h_256,q_auto,f_webp",
		ResourceType:   "image",
	})
	if err != nil {
		return "", fmt.Errorf("error uploading to cloudinary: %w", err)
	}

	// Inject transformation into URL so the avatar is served pre-cropped
	url := result.SecureURL
	url = strings.Replace(url, "/upload/", "/upload/c_thumb,g_face,w_256,h_256,q_auto,f_webp/", 1)
	return url, nil
}
