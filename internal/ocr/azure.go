package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"
)

// AzureProcessor recognizes printed text with Azure Computer Vision.
type AzureProcessor struct {
	client  computervision.BaseClient
	Timeout time.Duration
}

// NewAzureProcessor builds a processor authenticated with a Cognitive Services key.
func NewAzureProcessor(endpoint, apiKey string) *AzureProcessor {
	client := computervision.New(endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(apiKey)

	return &AzureProcessor{
		client:  client,
		Timeout: defaultTimeout,
	}
}

// ExtractText uploads imagePath to the OCR endpoint and joins the words of
// each returned line.
func (p *AzureProcessor) ExtractText(ctx context.Context, imagePath string, opts Options) (Result, error) {
	if imagePath == "" {
		return Result{}, errors.New("image path is required")
	}
	f, err := os.Open(imagePath)
	if err != nil {
		return Result{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := p.client.RecognizePrintedTextInStream(callCtx, true, f, azureLanguage(opts.Language))
	if err != nil {
		return Result{}, fmt.Errorf("azure ocr: %w", err)
	}

	lines := linesFromOCRResult(res)
	return Result{
		Engine: "azure",
		Text:   strings.Join(lines, "\n"),
		Lines:  lines,
	}, nil
}

// azureLanguages maps tesseract language codes onto the OCR endpoint's languages.
var azureLanguages = map[string]computervision.OcrLanguages{
	"ara":      computervision.OcrLanguagesAr,
	"ces":      computervision.OcrLanguagesCs,
	"dan":      computervision.OcrLanguagesDa,
	"deu":      computervision.OcrLanguagesDe,
	"ell":      computervision.OcrLanguagesEl,
	"eng":      computervision.OcrLanguagesEn,
	"spa":      computervision.OcrLanguagesEs,
	"fin":      computervision.OcrLanguagesFi,
	"fra":      computervision.OcrLanguagesFr,
	"hun":      computervision.OcrLanguagesHu,
	"ita":      computervision.OcrLanguagesIt,
	"jpn":      computervision.OcrLanguagesJa,
	"kor":      computervision.OcrLanguagesKo,
	"nor":      computervision.OcrLanguagesNb,
	"nld":      computervision.OcrLanguagesNl,
	"pol":      computervision.OcrLanguagesPl,
	"por":      computervision.OcrLanguagesPt,
	"ron":      computervision.OcrLanguagesRo,
	"rus":      computervision.OcrLanguagesRu,
	"slk":      computervision.OcrLanguagesSk,
	"srp":      computervision.OcrLanguagesSrCyrl,
	"srp_latn": computervision.OcrLanguagesSrLatn,
	"swe":      computervision.OcrLanguagesSv,
	"tur":      computervision.OcrLanguagesTr,
	"chi_sim":  computervision.OcrLanguagesZhHans,
	"chi_tra":  computervision.OcrLanguagesZhHant,
}

// azureLanguage resolves a tesseract code (or an ISO 639-1 code the endpoint
// already understands). Combined codes like "eng+deu" use the first
// entry; anything unmapped asks the service to detect the language.
func azureLanguage(lang string) computervision.OcrLanguages {
	lang = strings.TrimSpace(lang)
	if i := strings.IndexByte(lang, '+'); i >= 0 {
		lang = lang[:i]
	}
	if l, ok := azureLanguages[strings.ToLower(lang)]; ok {
		return l
	}
	for _, l := range computervision.PossibleOcrLanguagesValues() {
		if strings.EqualFold(string(l), lang) {
			return l
		}
	}
	return computervision.OcrLanguagesUnk
}

// linesFromOCRResult flattens regions into lines in the order the service returned them.
func linesFromOCRResult(result computervision.OcrResult) []string {
	lines := []string{}
	if result.Regions == nil {
		return lines
	}
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			if line.Words == nil {
				continue
			}
			words := make([]string, 0, len(*line.Words))
			for _, word := range *line.Words {
				if word.Text != nil {
					words = append(words, *word.Text)
				}
			}
			lines = append(lines, strings.Join(words, " "))
		}
	}
	return lines
}
