package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/SolutionSimple/obsicarte-backend/internal/entitlements"
	"github.com/SolutionSimple/obsicarte-backend/internal/tiers"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db/models"
	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
	pkgerrors "github.com/SolutionSimple/obsicarte-backend/pkg/errors"
)

const qrImageSize = 512

type profileStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	FindByUsername(ctx context.Context, username string) (*models.Profile, error)
	IncrementViewCount(ctx context.Context, profileID uuid.UUID) error
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	CreateCustomField(ctx context.Context, field *models.CustomField) error
	CountCustomFields(ctx context.Context, profileID uuid.UUID) (int64, error)
	ListCustomFields(ctx context.Context, profileID uuid.UUID, publicOnly bool) ([]models.CustomField, error)
}

type subscriptionStore interface {
	FindActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
}

// Service exposes the public profile surface and entitlement lookups.
type Service struct {
	profiles      profileStore
	subscriptions subscriptionStore
	origin        string
}

// NewService constructs a profile service. origin is the customer-facing
// origin public URLs are built on.
func NewService(profiles profileStore, subscriptions subscriptionStore, origin string) (*Service, error) {
	if profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profile store required")
	}
	if subscriptions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "subscription store required")
	}
	if strings.TrimSpace(origin) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "public origin required")
	}
	return &Service{
		profiles:      profiles,
		subscriptions: subscriptions,
		origin:        strings.TrimRight(strings.TrimSpace(origin), "/"),
	}, nil
}

// PublicField is a custom field as shown on the public page.
type PublicField struct {
	Type     enums.CustomFieldType `json:"type"`
	Label    string                `json:"label"`
	Value    string                `json:"value"`
	Position int                   `json:"position"`
}

// PublicProfile is the card holder's public page payload.
type PublicProfile struct {
	Username     string          `json:"username"`
	FullName     string          `json:"fullName"`
	Company      string          `json:"company,omitempty"`
	JobTitle     string          `json:"jobTitle,omitempty"`
	Email        string          `json:"email,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Bio          string          `json:"bio,omitempty"`
	AvatarURL    string          `json:"avatarUrl,omitempty"`
	VideoURL     string          `json:"videoUrl,omitempty"`
	SocialLinks  json.RawMessage `json:"socialLinks,omitempty"`
	CustomFields []PublicField   `json:"customFields"`
	PublicURL    string          `json:"publicUrl"`
	ViewCount    int64           `json:"viewCount"`
}

// PublicURL builds the shareable profile URL, the same one encoded on the
// physical card.
func (s *Service) PublicURL(username string) string {
	return s.origin + "/" + username
}

// GetPublic loads a profile for its public page and bumps the view counter.
func (s *Service) GetPublic(ctx context.Context, username string) (*PublicProfile, error) {
	profile, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.IncrementViewCount(ctx, profile.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count view")
	}
	profile.ViewCount++

	fields, err := s.profiles.ListCustomFields(ctx, profile.ID, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list custom fields")
	}

	out := &PublicProfile{
		Username:     profile.Username,
		FullName:     profile.FullName,
		Company:      profile.Company,
		JobTitle:     profile.JobTitle,
		Email:        profile.Email,
		Phone:        profile.Phone,
		Bio:          profile.Bio,
		AvatarURL:    profile.AvatarURL,
		VideoURL:     profile.VideoURL,
		SocialLinks:  profile.SocialLinks,
		CustomFields: make([]PublicField, 0, len(fields)),
		PublicURL:    s.PublicURL(profile.Username),
		ViewCount:    profile.ViewCount,
	}
	for _, field := range fields {
		out.CustomFields = append(out.CustomFields, PublicField{
			Type:     field.Type,
			Label:    field.Label,
			Value:    field.Value,
			Position: field.Position,
		})
	}
	return out, nil
}

// QRCode renders the profile's public URL as a PNG, sized for print.
func (s *Service) QRCode(ctx context.Context, username string) ([]byte, error) {
	profile, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(s.PublicURL(profile.Username), qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode qr")
	}
	return png, nil
}

// AddFieldInput is a custom field creation request.
type AddFieldInput struct {
	ProfileID uuid.UUID
	Type      string
	Label     string
	Value     string
	IsPublic  bool
	Position  int
}

// AddCustomField appends a custom field, enforcing the owner's tier quota.
func (s *Service) AddCustomField(ctx context.Context, input AddFieldInput) (*models.CustomField, error) {
	fieldType, err := enums.ParseCustomFieldType(strings.TrimSpace(strings.ToLower(input.Type)))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "field type")
	}
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "label is required")
	}

	profile, err := s.profiles.FindByID(ctx, input.ProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	ent, err := s.resolveEntitlements(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	count, err := s.profiles.CountCustomFields(ctx, profile.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count custom fields")
	}
	if !ent.CanAddCustomField(int(count)) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "custom field limit reached for the current plan")
	}

	field := &models.CustomField{
		ProfileID: profile.ID,
		Type:      fieldType,
		Label:     label,
		Value:     strings.TrimSpace(input.Value),
		IsPublic:  input.IsPublic,
		Position:  input.Position,
	}
	if err := s.profiles.CreateCustomField(ctx, field); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create custom field")
	}
	return field, nil
}

// EntitlementSummary reports what a user's current plan allows.
type EntitlementSummary struct {
	SubscriptionTier  enums.SubscriptionTier `json:"subscriptionTier"`
	Tier              *enums.Tier            `json:"tier"`
	Features          map[string]bool        `json:"features"`
	MaxProfiles       int                    `json:"maxProfiles"`
	RemainingProfiles int                    `json:"remainingProfiles"`
	VideoStorageMB    int                    `json:"videoStorageMb"`
	MaxCustomFields   int                    `json:"maxCustomFields"`
}

// Entitlements resolves the user's active subscription into a plan summary.
func (s *Service) Entitlements(ctx context.Context, userID uuid.UUID) (*EntitlementSummary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	ent, err := s.resolveEntitlements(ctx, userID)
	if err != nil {
		return nil, err
	}
	profileCount, err := s.profiles.CountByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count profiles")
	}

	summary := &EntitlementSummary{
		SubscriptionTier:  ent.SubscriptionTier(),
		Features:          map[string]bool{},
		MaxProfiles:       ent.MaxProfiles(),
		RemainingProfiles: ent.RemainingProfiles(int(profileCount)),
		VideoStorageMB:    ent.VideoStorageMB(),
		MaxCustomFields:   ent.MaxCustomFields(),
	}
	if tier, ok := ent.Tier(); ok {
		summary.Tier = &tier
	}
	for _, key := range tiers.FeatureKeys() {
		summary.Features[string(key)] = ent.CanAccessFeature(key)
	}
	return summary, nil
}

func (s *Service) resolveEntitlements(ctx context.Context, userID uuid.UUID) (entitlements.Entitlements, error) {
	sub, err := s.subscriptions.FindActiveByUserID(ctx, userID)
	if err != nil {
		return entitlements.Entitlements{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}
	return entitlements.Resolve(sub), nil
}

func (s *Service) findByUsername(ctx context.Context, username string) (*models.Profile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	profile, err := s.profiles.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}
