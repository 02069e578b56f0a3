package handler

import (
	"context"
	"time"

	"github.com/hitoshi/dapup/internal/model"
	"github.com/hitoshi/dapup/internal/repository"
)

// mockUserRepository はテスト用のUserRepositoryモック。
type mockUserRepository struct {
	findByUIDFunc   func(ctx context.Context, uid string) (*model.User, error)
	createFunc      func(ctx context.Context, user *model.User) error
	updateEmailFunc func(ctx context.Context, uid, email string) (*model.User, error)
	listFunc        func(ctx context.Context) ([]*model.User, error)
	deleteByUIDFunc func(ctx context.Context, uid string) error
}

func (m *mockUserRepository) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	if m.findByUIDFunc != nil {
		return m.findByUIDFunc(ctx, uid)
	}
	return nil, nil
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) UpdateEmail(ctx context.Context, uid, email string) (*model.User, error) {
	if m.updateEmailFunc != nil {
		return m.updateEmailFunc(ctx, uid, email)
	}
	return nil, nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]*model.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepository) DeleteByUID(ctx context.Context, uid string) error {
	if m.deleteByUIDFunc != nil {
		return m.deleteByUIDFunc(ctx, uid)
	}
	return nil
}

// compile-time interface check
var _ repository.UserRepository = (*mockUserRepository)(nil)

// mockAthleteRepository はテスト用のAthleteRepositoryモック。
type mockAthleteRepository struct {
	findByUIDFunc func(ctx context.Context, uid string) (*model.AthleteProfile, error)
	createFunc    func(ctx context.Context, profile *model.AthleteProfile) error
	updateFunc    func(ctx context.Context, uid string, input *model.UpdateAthleteInput) (*model.AthleteProfile, error)
	listFunc      func(ctx context.Context) ([]*model.AthleteProfile, error)
}

func (m *mockAthleteRepository) FindByUID(ctx context.Context, uid string) (*model.AthleteProfile, error) {
	if m.findByUIDFunc != nil {
		return m.findByUIDFunc(ctx, uid)
	}
	return nil, nil
}

func (m *mockAthleteRepository) Create(ctx context.Context, profile *model.AthleteProfile) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, profile)
	}
	return nil
}

func (m *mockAthleteRepository) Update(ctx context.Context, uid string, input *model.UpdateAthleteInput) (*model.AthleteProfile, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, uid, input)
	}
	return nil, nil
}

func (m *mockAthleteRepository) List(ctx context.Context) ([]*model.AthleteProfile, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

var _ repository.AthleteRepository = (*mockAthleteRepository)(nil)

// mockBrandRepository はテスト用のBrandRepositoryモック。
type mockBrandRepository struct {
	findByUIDFunc func(ctx context.Context, uid string) (*model.BrandProfile, error)
	createFunc    func(ctx context.Context, profile *model.BrandProfile) error
	updateFunc    func(ctx context.Context, uid string, input *model.UpdateBrandInput) (*model.BrandProfile, error)
	listFunc      func(ctx context.Context) ([]*model.BrandProfile, error)
}

func (m *mockBrandRepository) FindByUID(ctx context.Context, uid string) (*model.BrandProfile, error) {
	if m.findByUIDFunc != nil {
		return m.findByUIDFunc(ctx, uid)
	}
	return nil, nil
}

func (m *mockBrandRepository) Create(ctx context.Context, profile *model.BrandProfile) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, profile)
	}
	return nil
}

func (m *mockBrandRepository) Update(ctx context.Context, uid string, input *model.UpdateBrandInput) (*model.BrandProfile, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, uid, input)
	}
	return nil, nil
}

func (m *mockBrandRepository) List(ctx context.Context) ([]*model.BrandProfile, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

var _ repository.BrandRepository = (*mockBrandRepository)(nil)

// mockDirectorRepository はテスト用のDirectorRepositoryモック。
type mockDirectorRepository struct {
	findByUIDFunc func(ctx context.Context, uid string) (*model.DirectorProfile, error)
	createFunc    func(ctx context.Context, profile *model.DirectorProfile) error
	updateFunc    func(ctx context.Context, uid string, input *model.UpdateDirectorInput) (*model.DirectorProfile, error)
	listFunc      func(ctx context.Context) ([]*model.DirectorProfile, error)
}

func (m *mockDirectorRepository) FindByUID(ctx context.Context, uid string) (*model.DirectorProfile, error) {
	if m.findByUIDFunc != nil {
		return m.findByUIDFunc(ctx, uid)
	}
	return nil, nil
}

func (m *mockDirectorRepository) Create(ctx context.Context, profile *model.DirectorProfile) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, profile)
	}
	return nil
}

func (m *mockDirectorRepository) Update(ctx context.Context, uid string, input *model.UpdateDirectorInput) (*model.DirectorProfile, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, uid, input)
	}
	return nil, nil
}

func (m *mockDirectorRepository) List(ctx context.Context) ([]*model.DirectorProfile, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

var _ repository.DirectorRepository = (*mockDirectorRepository)(nil)

// mockCampaignRepository はテスト用のCampaignRepositoryモック。
type mockCampaignRepository struct {
	findByIDFunc      func(ctx context.Context, id string) (*model.Campaign, error)
	listByCreatorFunc func(ctx context.Context, uid string) ([]*model.Campaign, error)
}

func (m *mockCampaignRepository) FindByID(ctx context.Context, id string) (*model.Campaign, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockCampaignRepository) ListByCreator(ctx context.Context, uid string) ([]*model.Campaign, error) {
	if m.listByCreatorFunc != nil {
		return m.listByCreatorFunc(ctx, uid)
	}
	return nil, nil
}

var _ repository.CampaignRepository = (*mockCampaignRepository)(nil)

// mockApplicationRepository はテスト用のApplicationRepositoryモック。
type mockApplicationRepository struct {
	findByCampaignAndAthleteFunc   func(ctx context.Context, campaignID, athleteID string) (*model.Application, error)
	listByCampaignFunc             func(ctx context.Context, campaignID string) ([]*model.Application, error)
	listByCampaignWithProfilesFunc func(ctx context.Context, campaignID string) ([]model.ApplicationWithProfile, error)
	listByAthleteFunc              func(ctx context.Context, athleteID string) ([]*model.Application, error)
	createFunc                     func(ctx context.Context, app *model.Application) error
	updateFunc                     func(ctx context.Context, campaignID, athleteID string, input *model.UpdateApplicationInput) (*model.Application, error)
}

func (m *mockApplicationRepository) FindByCampaignAndAthlete(ctx context.Context, campaignID, athleteID string) (*model.Application, error) {
	if m.findByCampaignAndAthleteFunc != nil {
		return m.findByCampaignAndAthleteFunc(ctx, campaignID, athleteID)
	}
	return nil, nil
}

func (m *mockApplicationRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*model.Application, error) {
	if m.listByCampaignFunc != nil {
		return m.listByCampaignFunc(ctx, campaignID)
	}
	return nil, nil
}

func (m *mockApplicationRepository) ListByCampaignWithProfiles(ctx context.Context, campaignID string) ([]model.ApplicationWithProfile, error) {
	if m.listByCampaignWithProfilesFunc != nil {
		return m.listByCampaignWithProfilesFunc(ctx, campaignID)
	}
	return nil, nil
}

func (m *mockApplicationRepository) ListByAthlete(ctx context.Context, athleteID string) ([]*model.Application, error) {
	if m.listByAthleteFunc != nil {
		return m.listByAthleteFunc(ctx, athleteID)
	}
	return nil, nil
}

func (m *mockApplicationRepository) Create(ctx context.Context, app *model.Application) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, app)
	}
	return nil
}

func (m *mockApplicationRepository) Update(ctx context.Context, campaignID, athleteID string, input *model.UpdateApplicationInput) (*model.Application, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, campaignID, athleteID, input)
	}
	return nil, nil
}

var _ repository.ApplicationRepository = (*mockApplicationRepository)(nil)

// mockContractRepository はテスト用のContractRepositoryモック。
type mockContractRepository struct {
	findByApplicationFunc func(ctx context.Context, campaignID, athleteID string) (*model.Contract, error)
	createFunc            func(ctx context.Context, contract *model.Contract) error
	updateFunc            func(ctx context.Context, campaignID, athleteID string, input *model.UpdateContractInput) (*model.Contract, error)
	markSentFunc          func(ctx context.Context, campaignID, athleteID string, sentAt time.Time) (*model.Contract, error)
}

func (m *mockContractRepository) FindByApplication(ctx context.Context, campaignID, athleteID string) (*model.Contract, error) {
	if m.findByApplicationFunc != nil {
		return m.findByApplicationFunc(ctx, campaignID, athleteID)
	}
	return nil, nil
}

func (m *mockContractRepository) Create(ctx context.Context, contract *model.Contract) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, contract)
	}
	return nil
}

func (m *mockContractRepository) Update(ctx context.Context, campaignID, athleteID string, input *model.UpdateContractInput) (*model.Contract, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, campaignID, athleteID, input)
	}
	return nil, nil
}

func (m *mockContractRepository) MarkSent(ctx context.Context, campaignID, athleteID string, sentAt time.Time) (*model.Contract, error) {
	if m.markSentFunc != nil {
		return m.markSentFunc(ctx, campaignID, athleteID, sentAt)
	}
	return nil, nil
}

var _ repository.ContractRepository = (*mockContractRepository)(nil)

// mockDealRepository はテスト用のDealRepositoryモック。
type mockDealRepository struct {
	listEnrichedByAthleteFunc func(ctx context.Context, athleteID string) ([]model.EnrichedDeal, error)
}

func (m *mockDealRepository) ListEnrichedByAthlete(ctx context.Context, athleteID string) ([]model.EnrichedDeal, error) {
	if m.listEnrichedByAthleteFunc != nil {
		return m.listEnrichedByAthleteFunc(ctx, athleteID)
	}
	return nil, nil
}

var _ repository.DealRepository = (*mockDealRepository)(nil)
