package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	config "github.com/localhive/local_hive/configs"
	"github.com/localhive/local_hive/models"
)

// GenerateSessionFlyer renders a printable flyer for the session through
// headless Chrome, uploads the PDF to Cloudinary, and returns its URL.
func GenerateSessionFlyer(session *models.Session) (string, error) {
	html, err := renderFlyerHTML(session)
	if err != nil {
		return "", fmt.Errorf("failed to render flyer HTML: %w", err)
	}

	pdfBytes, err := generatePDFFromHTML(html)
	if err != nil {
		return "", fmt.Errorf("failed to render flyer PDF: %w", err)
	}

	return uploadFlyerToCloudinary(pdfBytes, session.ID.String())
}

func renderFlyerHTML(session *models.Session) (string, error) {
	tmpl, err := template.ParseFiles("templates/flyer.html")
	if err != nil {
		return "", err
	}

	price := fmt.Sprintf("%.2f", session.Price)
	if session.Price == 0 {
		price = "Free"
	}

	data := struct {
		Title       string
		Description string
		Category    string
		TeacherName string
		Location    string
		DateTime    string
		Price       string
	}{
		Title:       session.Title,
		Description: session.Description,
		Category:    session.Category,
		TeacherName: session.TeacherName,
		Location:    session.Location,
		DateTime:    session.DateTime.Format("Monday, January 2, 2006 at 3:04 PM"),
		Price:       price,
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadFlyerToCloudinary(fileBytes []byte, sessionID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("flyers/%s_%s", sessionID, uuid.New().String()),
		Folder:       "local_hive_flyers",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
