package keyring

import (
	"fmt"
	"strconv"
	"strings"

	"dot-wallet/pkg/crypto_util"
	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/scale"
)

const chainCodeLength = 32

// Junction 派生路径中的一段: "//name" 为硬派生, "/name" 为软派生
type Junction struct {
	Name      string
	Hard      bool
	ChainCode [chainCodeLength]byte
}

// ParsePath 解析 "//hard/soft//0" 形式的派生路径, 空路径返回 nil
func ParsePath(path string) ([]Junction, error) {
	var junctions []Junction
	rest := path
	for rest != "" {
		if !strings.HasPrefix(rest, "/") {
			return nil, fmt.Errorf("%w: %q", errno.ErrInvalidDerivationPath, path)
		}
		hard := strings.HasPrefix(rest, "//")
		if hard {
			rest = rest[2:]
		} else {
			rest = rest[1:]
		}

		end := strings.IndexByte(rest, '/')
		if end < 0 {
			end = len(rest)
		}
		name := rest[:end]
		if name == "" {
			return nil, fmt.Errorf("%w: empty junction in %q", errno.ErrInvalidDerivationPath, path)
		}
		rest = rest[end:]

		junctions = append(junctions, Junction{Name: name, Hard: hard, ChainCode: chainCode(name)})
	}
	return junctions, nil
}

// chainCode 数字按 u64 小端编码, 其余按 SCALE 字符串编码; 超过 32 字节取 blake2b-256
func chainCode(name string) [chainCodeLength]byte {
	var encoded []byte
	if n, err := strconv.ParseUint(name, 10, 64); err == nil {
		encoded = scale.EncodeU64(n)
	} else {
		encoded = scale.EncodeString(name)
	}

	var cc [chainCodeLength]byte
	if len(encoded) > chainCodeLength {
		cc = crypto_util.Blake2b256(encoded)
	} else {
		copy(cc[:], encoded)
	}
	return cc
}

// hardDerive blake2b-256(SCALE(domain) ‖ seed ‖ chaincode)
func hardDerive(domain string, seed [seedLength]byte, cc [chainCodeLength]byte) [seedLength]byte {
	return crypto_util.Blake2b256(scale.EncodeString(domain), seed[:], cc[:])
}
