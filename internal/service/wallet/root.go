package wallet

import (
	"fmt"

	"dot-wallet/pkg/config"
	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/keyring"
	"dot-wallet/pkg/keystore"
)

// LoadRoot 按配置加载服务根密钥
// 优先级: keystore 文件 > 明文助记词; 两者都为空时报错, 不会静默回退到开发助记词
func LoadRoot(cfg config.WalletConfig) (keyring.Keypair, error) {
	scheme, err := keyring.ParseScheme(cfg.Scheme)
	if err != nil {
		return nil, err
	}

	// 1. 取出助记词
	secret := cfg.Mnemonic
	if cfg.Keystore != "" {
		kf, err := keystore.LoadFromFile(cfg.Keystore)
		if err != nil {
			return nil, fmt.Errorf("load keystore %s: %w", cfg.Keystore, err)
		}
		if secret, err = keystore.Decrypt(kf, cfg.KeystorePassword); err != nil {
			return nil, fmt.Errorf("decrypt keystore %s: %w", cfg.Keystore, err)
		}
		if kf.Meta.Scheme != "" && kf.Meta.Scheme != string(scheme) {
			return nil, fmt.Errorf("%w: keystore created for %s, configured %s", errno.ErrUnsupportedScheme, kf.Meta.Scheme, scheme)
		}
	}
	if secret == "" {
		return nil, fmt.Errorf("%w: neither wallet.keystore nor wallet.mnemonic is set", errno.ErrInvalidMnemonic)
	}

	// 2. 拼接 URI 密码
	uri := secret
	if cfg.Password != "" {
		uri += "///" + cfg.Password
	}
	return keyring.NewProvider(scheme).FromURI(uri)
}
