package files

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

// pdfImageTypes maps extensions to the image types fpdf can embed.
var pdfImageTypes = map[string]string{
	".jpg":  "JPG",
	".jpeg": "JPG",
	".png":  "PNG",
	".gif":  "GIF",
}

// IsPDFImage reports whether fpdf can embed the image at name as is.
func IsPDFImage(name string) bool {
	_, ok := pdfImageTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}

// CreatePDF creates a pdf file named pdfPath with one page per image in sourceDir,
// each page sized to its image.
func CreatePDF(sourceDir, pdfPath string) error {
	images, err := listImages(sourceDir)
	if err != nil {
		return err
	}

	if len(images) == 0 {
		return errors.Errorf("no images found in %s", sourceDir)
	}

	if err := os.MkdirAll(filepath.Dir(pdfPath), os.ModePerm); err != nil {
		return err
	}

	pdf := fpdf.New(fpdf.OrientationPortrait, fpdf.UnitMillimeter, "", "")

	for _, imgPath := range images {
		imageType, ok := pdfImageTypes[strings.ToLower(filepath.Ext(imgPath))]
		if !ok {
			return errors.Errorf("unsupported pdf image type: %s", filepath.Base(imgPath))
		}

		opts := fpdf.ImageOptions{ImageType: imageType}

		pdfInfo := pdf.RegisterImageOptions(imgPath, opts)
		if err := pdf.Error(); err != nil {
			return errors.Wrapf(err, "could not register image %s", imgPath)
		}

		imgWidth, imgHeight := pdfInfo.Extent()

		pdf.AddPageFormat(fpdf.OrientationPortrait, fpdf.SizeType{Wd: imgWidth, Ht: imgHeight})

		pdf.ImageOptions(imgPath, 0, 0, imgWidth, imgHeight, false, opts, 0, "")
	}

	return pdf.OutputFileAndClose(pdfPath)
}
