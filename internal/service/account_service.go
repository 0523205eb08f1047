package service

import (
	"Mastosync/internal/api/dto"
	"Mastosync/internal/model"
	"Mastosync/internal/pkg/network"
	"Mastosync/internal/repository"
	"context"
	log "log/slog"

	"github.com/jinzhu/copier"
)

type AccountService interface {
	Login(ctx context.Context, domain, token string) (*dto.AccountDTO, error)
	ActiveAccount(ctx context.Context) (*dto.AccountDTO, error)
	UpdatePreferences(ctx context.Context, showSensitive, openSpoiler bool) (*dto.AccountDTO, error)
}

type accountServiceImpl struct {
	conn        *network.ConnectionManager
	accountRepo repository.AccountRepo
}

func NewAccountService(conn *network.ConnectionManager, accountRepo repository.AccountRepo) AccountService {
	return &accountServiceImpl{
		conn:        conn,
		accountRepo: accountRepo,
	}
}

// NewTokenSource 从活跃账号读取令牌，令牌只发往账号所属的实例
func NewTokenSource(accountRepo repository.AccountRepo) network.TokenSource {
	return func(ctx context.Context, domain string) string {
		account, err := accountRepo.GetActive(ctx)
		if err != nil {
			return ""
		}
		if network.NormalizeDomain(account.Domain) != network.NormalizeDomain(domain) {
			return ""
		}
		return account.AccessToken
	}
}

// Login 校验令牌后保存账号、切换实例域名并设为活跃账号，其他账号的数据不受影响
func (s *accountServiceImpl) Login(ctx context.Context, domain, token string) (*dto.AccountDTO, error) {
	domain = network.NormalizeDomain(domain)
	if domain == "" || token == "" {
		return nil, ErrParamInvalid
	}

	client, err := s.conn.APIForDomain(ctx, domain, token)
	if err != nil {
		return nil, err
	}
	remote, err := client.VerifyCredentials(ctx)
	if err != nil {
		log.WarnContext(ctx, "verify credentials failed", "domain", domain, "err", err)
		return nil, ErrLoginFailed
	}

	account := &model.Account{
		Domain:      domain,
		AccountID:   remote.ID,
		AccessToken: token,
		Username:    remote.Username,
		DisplayName: remote.DisplayName,
		AvatarURL:   remote.Avatar,
	}
	if err = s.accountRepo.Upsert(ctx, account); err != nil {
		return nil, err
	}
	if err = s.conn.SetAPIDomain(ctx, domain); err != nil {
		return nil, err
	}
	if err = s.accountRepo.SetActive(ctx, account.ID); err != nil {
		return nil, err
	}
	account.IsActive = true

	log.InfoContext(ctx, "account logged in", "account", account.FullName(), "id", account.ID)
	return toAccountDTO(account), nil
}

func (s *accountServiceImpl) ActiveAccount(ctx context.Context) (*dto.AccountDTO, error) {
	account, err := activeAccount(ctx, s.accountRepo)
	if err != nil {
		return nil, err
	}
	return toAccountDTO(account), nil
}

// UpdatePreferences 只影响之后同步的会话的默认展开/显示状态
func (s *accountServiceImpl) UpdatePreferences(ctx context.Context, showSensitive, openSpoiler bool) (*dto.AccountDTO, error) {
	account, err := activeAccount(ctx, s.accountRepo)
	if err != nil {
		return nil, err
	}
	if err = s.accountRepo.UpdatePreferences(ctx, account.ID, showSensitive, openSpoiler); err != nil {
		return nil, err
	}
	account.AlwaysShowSensitiveMedia = showSensitive
	account.AlwaysOpenSpoiler = openSpoiler
	return toAccountDTO(account), nil
}

func toAccountDTO(account *model.Account) *dto.AccountDTO {
	d := &dto.AccountDTO{}
	_ = copier.Copy(d, account)
	return d
}
