package handlers

import (
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	config "github.com/darlington872/lastman55444-sub000/configs"
	"github.com/gofiber/fiber/v2"
)

const kycUploadFolder = "kyc_documents"

// GenerateUploadSignature signs a direct browser upload of KYC documents.
func GenerateUploadSignature(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	cloudinaryURL := config.AppConfig.CloudinaryURL
	if cloudinaryURL == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "error",
			"error":   "Unavailable",
			"message": "Document uploads are not configured",
		})
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return respondError(c, err)
	}

	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return respondError(c, err)
	}
	secret, _ := parsedURL.User.Password()

	folder := kycUploadFolder + "/" + userID.String()
	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder: folder,
	})
	if err != nil {
		return respondError(c, err)
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"apiKey":    cld.Config.Cloud.APIKey,
		"cloudName": cld.Config.Cloud.CloudName,
		"folder":    folder,
	})
}
