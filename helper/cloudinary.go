package helper

import (
	"bytes"
	"context"
	"log"
	"sync"

	"cinema_booking/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var (
	cld     *cloudinary.Cloudinary
	cldOnce sync.Once
)

func cloudinaryClient() *cloudinary.Cloudinary {
	cldOnce.Do(func() {
		name := config.Config("CLOUDINARY_CLOUD_NAME")
		if name == "" {
			log.Println("cloudinary not configured, artifact uploads disabled")
			return
		}
		c, err := cloudinary.NewFromParams(
			name,
			config.Config("CLOUDINARY_API_KEY"),
			config.Config("CLOUDINARY_API_SECRET"),
		)
		if err != nil {
			log.Printf("cloudinary init failed: %v", err)
			return
		}
		cld = c
	})
	return cld
}

// UploadArtifact stores the blob and returns its retrievable URL.
// Returns an empty URL without error when cloudinary is not configured,
// so callers can fall back to inline references.
func UploadArtifact(publicID string, data []byte, folder string) (string, error) {
	client := cloudinaryClient()
	if client == nil {
		return "", nil
	}
	result, err := client.Upload.Upload(context.Background(), bytes.NewReader(data), uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "auto",
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}
