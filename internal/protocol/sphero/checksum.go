package sphero

// Checksum 计算 Sphero 校验和
// 算法：对 DID 起到载荷末尾的所有字节模256累加，再按位取反取低8位
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return ^sum
}
