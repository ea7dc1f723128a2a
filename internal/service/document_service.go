package service

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model/dto"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/oss"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/repository"
)

var (
	ErrDocumentNotFound   = errors.New("document introuvable")
	ErrDocumentPermission = errors.New("vous n'êtes pas autorisé à modifier ce document")
	ErrInvalidFileFormat  = errors.New("seuls les fichiers PDF sont acceptés")
	ErrPremiumRequired    = errors.New("ce contenu est réservé aux abonnés premium")
)

type DocumentService struct {
	docRepo    *repository.DocumentRepository
	premiumSvc *PremiumService
	ossClient  *oss.Client
}

func NewDocumentService(docRepo *repository.DocumentRepository, premiumSvc *PremiumService, ossClient *oss.Client) *DocumentService {
	return &DocumentService{
		docRepo:    docRepo,
		premiumSvc: premiumSvc,
		ossClient:  ossClient,
	}
}

// Create uploads the PDF to OSS and records the document. Only teachers and
// admins reach this through the router.
func (s *DocumentService) Create(userID int64, req *dto.CreateDocumentRequest, filename string, file io.Reader) (*dto.DocumentInfo, error) {
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return nil, ErrInvalidFileFormat
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	objectKey, url, err := s.ossClient.UploadDocument(userID, data)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		UserID:  userID,
		Title:   req.Title,
		Subject: req.Subject,
		Level:   req.Level,
		Year:    req.Year,
		FileURL: url,
		FileKey: objectKey,
		Premium: req.Premium,
	}
	if err := s.docRepo.Create(doc); err != nil {
		s.ossClient.Delete(objectKey)
		return nil, err
	}

	return buildDocumentInfo(doc, true), nil
}

// List returns the catalogue. Premium documents are listed for everyone so
// that free users can see what a subscription buys, but their file URL is
// held back unless the caller has premium access.
func (s *DocumentService) List(userID int64, req *dto.ListDocumentsRequest) ([]*dto.DocumentInfo, int64, error) {
	docs, total, err := s.docRepo.List(req.Page, req.PageSize, req.Subject, req.Level)
	if err != nil {
		return nil, 0, err
	}

	isPremium, err := s.premiumSvc.IsPremium(userID)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]*dto.DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, buildDocumentInfo(doc, isPremium))
	}
	return infos, total, nil
}

// GetByID returns the document with its download URL. Premium documents
// require premium access; the access check re-derives from the ledger, so a
// stale cached flag cannot leak content.
func (s *DocumentService) GetByID(userID, docID int64) (*dto.DocumentInfo, error) {
	doc, err := s.docRepo.GetByID(docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	if doc.Premium {
		isPremium, err := s.premiumSvc.IsPremium(userID)
		if err != nil {
			return nil, err
		}
		if !isPremium {
			return nil, ErrPremiumRequired
		}
	}

	return buildDocumentInfo(doc, true), nil
}

// DownloadURL returns a short-lived signed URL for the file itself.
func (s *DocumentService) DownloadURL(userID, docID int64) (string, error) {
	doc, err := s.docRepo.GetByID(docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrDocumentNotFound
		}
		return "", err
	}

	if doc.Premium {
		isPremium, err := s.premiumSvc.IsPremium(userID)
		if err != nil {
			return "", err
		}
		if !isPremium {
			return "", ErrPremiumRequired
		}
	}

	return s.ossClient.GetSignedURL(doc.FileKey)
}

func (s *DocumentService) Delete(userID, docID int64, role string) error {
	doc, err := s.docRepo.GetByID(docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}

	if doc.UserID != userID && role != model.RoleAdmin {
		return ErrDocumentPermission
	}

	if err := s.docRepo.Delete(docID); err != nil {
		return err
	}
	if doc.FileKey != "" {
		s.ossClient.Delete(doc.FileKey)
	}
	return nil
}

func buildDocumentInfo(doc *model.Document, withFileURL bool) *dto.DocumentInfo {
	info := &dto.DocumentInfo{
		ID:        doc.ID,
		Title:     doc.Title,
		Subject:   doc.Subject,
		Level:     doc.Level,
		Year:      doc.Year,
		Premium:   doc.Premium,
		CreatedAt: doc.CreatedAt.Format(time.RFC3339),
	}
	if withFileURL || !doc.Premium {
		info.FileURL = doc.FileURL
	}
	return info
}
