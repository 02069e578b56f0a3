package identity

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTokenTTL はLocalProviderが発行するトークンの有効期間。
const DefaultTokenTTL = time.Hour

// LocalProvider はインメモリのProvider実装。
// 開発・テスト用であり、HMAC-SHA256署名付きのBearerトークン
// （uid.expiry.sig形式）を発行する。同じ秘密鍵を持つVerifierで
// バックエンド側のトークン検証にも使用できる。
type LocalProvider struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time

	mu          sync.Mutex
	accounts    map[string]*localAccount // emailLowerをキーとする
	current     *Account
	subscribers map[int]func(*Account)
	nextSubID   int
}

type localAccount struct {
	uid           string
	email         string
	password      string
	emailVerified bool
	disabled      bool
}

// NewLocalProvider はLocalProviderの新しいインスタンスを生成する。
func NewLocalProvider(secret string) *LocalProvider {
	return &LocalProvider{
		secret:      []byte(secret),
		tokenTTL:    DefaultTokenTTL,
		now:         time.Now,
		accounts:    make(map[string]*localAccount),
		subscribers: make(map[int]func(*Account)),
	}
}

var _ Provider = (*LocalProvider)(nil)

// SignIn はメールアドレスとパスワードでサインインする。
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Account, error) {
	if !isValidEmail(email) {
		return nil, NewAuthError(CodeInvalidEmail)
	}

	p.mu.Lock()
	acct, ok := p.accounts[strings.ToLower(email)]
	if !ok {
		p.mu.Unlock()
		return nil, NewAuthError(CodeUserNotFound)
	}
	if acct.disabled {
		p.mu.Unlock()
		return nil, NewAuthError(CodeUserDisabled)
	}
	if subtle.ConstantTimeCompare([]byte(acct.password), []byte(password)) != 1 {
		p.mu.Unlock()
		return nil, NewAuthError(CodeWrongPassword)
	}
	account := acct.toAccount()
	p.current = account
	p.mu.Unlock()

	p.notify(account)
	return account, nil
}

// CreateAccount は新しいアカウントを作成し、サインイン状態にする。
func (p *LocalProvider) CreateAccount(ctx context.Context, email, password string) (*Account, error) {
	if !isValidEmail(email) {
		return nil, NewAuthError(CodeInvalidEmail)
	}
	if len(password) < 6 {
		return nil, NewAuthError(CodeWeakPassword)
	}

	key := strings.ToLower(email)

	p.mu.Lock()
	if _, exists := p.accounts[key]; exists {
		p.mu.Unlock()
		return nil, NewAuthError(CodeEmailAlreadyInUse)
	}
	acct := &localAccount{
		uid:      uuid.NewString(),
		email:    email,
		password: password,
	}
	p.accounts[key] = acct
	account := acct.toAccount()
	p.current = account
	p.mu.Unlock()

	p.notify(account)
	return account, nil
}

// SignOut は現在のアカウントをサインアウトする。
func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()

	p.notify(nil)
	return nil
}

// SendPasswordReset はパスワードリセットメールの送信を要求する。
// LocalProviderでは実送信は行わず、アカウントの存在確認のみ行う。
func (p *LocalProvider) SendPasswordReset(ctx context.Context, email string) error {
	if !isValidEmail(email) {
		return NewAuthError(CodeInvalidEmail)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.accounts[strings.ToLower(email)]; !ok {
		return NewAuthError(CodeUserNotFound)
	}
	return nil
}

// SendEmailVerification は確認メールの送信を要求する。
// LocalProviderでは実送信は行わない。検証完了はMarkEmailVerifiedで記録する。
func (p *LocalProvider) SendEmailVerification(ctx context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, acct := range p.accounts {
		if acct.uid == uid {
			return nil
		}
	}
	return NewAuthError(CodeUserNotFound)
}

// MarkEmailVerified は指定UIDのメール検証完了を記録する。テスト・開発用。
func (p *LocalProvider) MarkEmailVerified(uid string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, acct := range p.accounts {
		if acct.uid == uid {
			acct.emailVerified = true
			if p.current != nil && p.current.UID == uid {
				p.current = acct.toAccount()
			}
			return
		}
	}
}

// IDToken は現在のアカウントのBearerトークンを発行する。
// 未認証時は空文字列とnilを返す。トークン不在はエラーではない。
func (p *LocalProvider) IDToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return "", nil
	}
	expiry := p.now().Add(p.tokenTTL).Unix()
	return mintToken(p.secret, p.current.UID, expiry), nil
}

// CurrentAccount は現在サインイン中のアカウントを返す。未認証時はnil。
func (p *LocalProvider) CurrentAccount() *Account {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	copied := *p.current
	return &copied
}

// OnAuthStateChanged は認証状態の変化を購読する。
// 購読直後に現在の状態で1回呼び出される。
func (p *LocalProvider) OnAuthStateChanged(fn func(*Account)) func() {
	p.mu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = fn
	current := p.current
	p.mu.Unlock()

	fn(current)

	return func() {
		p.mu.Lock()
		delete(p.subscribers, id)
		p.mu.Unlock()
	}
}

// notify は購読者へ認証状態の変化を通知する。
// コールバック実行中にロックを保持しない。
func (p *LocalProvider) notify(account *Account) {
	p.mu.Lock()
	fns := make([]func(*Account), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(account)
	}
}

func (a *localAccount) toAccount() *Account {
	return &Account{UID: a.uid, Email: a.email, EmailVerified: a.emailVerified}
}

func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\n")
}

// mintToken はuid.expiry.sig形式の署名付きトークンを生成する。
func mintToken(secret []byte, uid string, expiry int64) string {
	payload := fmt.Sprintf("%s.%d", uid, expiry)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return payload + "." + hex.EncodeToString(mac.Sum(nil))
}

// トークン検証エラー
var (
	ErrTokenMalformed = errors.New("identity: malformed token")
	ErrTokenExpired   = errors.New("identity: token expired")
	ErrTokenSignature = errors.New("identity: invalid token signature")
)

// Verifier はLocalProviderが発行したトークンを検証する。
// バックエンドのBearer認証ミドルウェアで使用する。
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewVerifier はVerifierの新しいインスタンスを生成する。
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret), now: time.Now}
}

// VerifyToken はトークンを検証し、含まれるUIDを返す。
func (v *Verifier) VerifyToken(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", ErrTokenMalformed
	}
	uid, expiryStr, sig := parts[0], parts[1], parts[2]

	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil {
		return "", ErrTokenMalformed
	}

	expected := mintToken(v.secret, uid, expiry)
	expectedSig := expected[strings.LastIndex(expected, ".")+1:]
	if subtle.ConstantTimeCompare([]byte(sig), []byte(expectedSig)) != 1 {
		return "", ErrTokenSignature
	}

	if v.now().Unix() > expiry {
		return "", ErrTokenExpired
	}
	return uid, nil
}
