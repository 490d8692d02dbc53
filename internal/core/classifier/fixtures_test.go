package classifier

const emailBodyText = "De: a@b.com\nPara: c@d.com\nAssunto: Oi\n\nBom dia, segue em anexo o relatório."

const boletoText = `Banco Itaú S.A.
Ficha de Compensação
Carteira 109
Autenticação mecânica
23793.38128 60082.704599 00001.403226 1 84660000025000
`

const nfseText = `PREFEITURA MUNICIPAL DE SÃO PAULO
SECRETARIA MUNICIPAL DA FAZENDA
NOTA FISCAL DE SERVIÇOS ELETRÔNICA – NFS-e
Número da Nota: 00012345
Código de Verificação: ABCD-1234
PRESTADOR DE SERVIÇOS
CPF/CNPJ: 12.345.678/0001-95
Inscrição Municipal: 1.234.567-8
TOMADOR DE SERVIÇOS
CPF/CNPJ: 98.765.432/0001-10
DISCRIMINAÇÃO DOS SERVIÇOS
Consultoria em tecnologia
VALOR TOTAL DO SERVIÇO = R$ 1.500,00
`

const danfeText = `DANFE
DOCUMENTO AUXILIAR DA NOTA FISCAL ELETRÔNICA
0 - ENTRADA
1 - SAÍDA
CHAVE DE ACESSO
35190112345678000195550010001234561001234567
Consulta de autenticidade no portal nacional da NF-e
`

const rpsHotelText = `RPS Nº 1234
RECIBO PROVISÓRIO DE SERVIÇOS
Hotel Praia Azul
Hospedagem - 3 diárias
Quarto 204
Check-in: 10/01/2025
Check-out: 13/01/2025
Valor da diária: R$ 350,00
`
