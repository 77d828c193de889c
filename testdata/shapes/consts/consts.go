package consts

const Pi = 3.14159
