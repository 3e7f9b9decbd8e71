package bip39

import (
	"crypto/sha512"
	"fmt"

	"dot-wallet/pkg/errno"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"
)

// MiniSecretSize Substrate 密钥种子长度
const MiniSecretSize = 32

// MnemonicService 提供助记词相关的功能
type MnemonicService struct{}

// NewMnemonicService 创建一个新的助记词服务实例
func NewMnemonicService() *MnemonicService {
	return &MnemonicService{}
}

// GenerateMnemonic 生成一个新的随机助记词 (BIP-39)。
// bitSize: 熵的位数，通常为 128 (12个单词) 或 256 (24个单词)。
func (s *MnemonicService) GenerateMnemonic(bitSize int) (string, error) {
	// 生成熵
	entropy, err := bip39.NewEntropy(bitSize)
	if err != nil {
		return "", fmt.Errorf("生成熵失败: %v", err)
	}

	// 从熵生成助记词
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("生成助记词失败: %v", err)
	}

	return mnemonic, nil
}

// ValidateMnemonic 验证助记词是否有效。
func (s *MnemonicService) ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// MnemonicToSeed 将助记词转换为种子 (BIP-39 Seed)。
// password: 可选的密码 (Passphrase),用于以此增强安全性 (这也是 "第25个单词" 的由来)。
// 如果不需要密码，传空字符串 ""。
func (s *MnemonicService) MnemonicToSeed(mnemonic string, password string) []byte {
	return bip39.NewSeed(mnemonic, password)
}

// MiniSecret 按 Substrate 规则从助记词派生 32 字节种子。
// 与标准 BIP-39 不同: PBKDF2 的输入是助记词对应的熵, 而不是助记词文本本身。
// seed = pbkdf2-sha512(entropy, "mnemonic"+password, 2048)[:32]
func (s *MnemonicService) MiniSecret(mnemonic string, password string) ([]byte, error) {
	seed, err := s.SubstrateSeed(mnemonic, password)
	if err != nil {
		return nil, err
	}
	return seed[:MiniSecretSize], nil
}

// SubstrateSeed 返回完整的 64 字节 Substrate 种子
func (s *MnemonicService) SubstrateSeed(mnemonic string, password string) ([]byte, error) {
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidMnemonic, err)
	}
	return pbkdf2.Key(entropy, []byte("mnemonic"+password), 2048, 64, sha512.New), nil
}
